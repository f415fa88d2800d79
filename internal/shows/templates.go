package shows

// Template is a starting point for a new show in a common format.
type Template struct {
	Name           string
	Format         string
	Description    string
	VisualStyle    string
	Tone           string
	TargetDuration string
}

// Templates returns the built-in show templates.
func Templates() []Template {
	return []Template{
		{
			Name:           "AI House Clone",
			Format:         "Sitcom / Comedy",
			Description:    "AI personalities living together, dealing with everyday situations with comedic results.",
			VisualStyle:    "Mid-century modern apartment, warm lighting, Instagram-worthy interiors",
			Tone:           "Comedic",
			TargetDuration: "Medium (3-7 min)",
		},
		{
			Name:           "AI News Desk",
			Format:         "News / Commentary",
			Description:    "AI hosts discuss and react to trending topics with wit and insight.",
			VisualStyle:    "Modern news studio, clean graphics, professional lighting",
			Tone:           "Energetic",
			TargetDuration: "Short (1-3 min)",
		},
		{
			Name:           "Explainer Series",
			Format:         "Educational",
			Description:    "AI host explains complex topics in an engaging, accessible way.",
			VisualStyle:    "Clean whiteboard aesthetic, animated graphics, friendly visuals",
			Tone:           "Educational",
			TargetDuration: "Medium (3-7 min)",
		},
		{
			Name:           "AI Talk Show",
			Format:         "Interview",
			Description:    "AI host interviews characters or discusses topics with panel guests.",
			VisualStyle:    "Late night talk show set, warm studio lighting, cozy atmosphere",
			Tone:           "Casual",
			TargetDuration: "Long (7-15 min)",
		},
	}
}

// FindTemplate returns the template whose name matches, case-sensitive.
func FindTemplate(name string) (Template, bool) {
	for _, tpl := range Templates() {
		if tpl.Name == name {
			return tpl, true
		}
	}
	return Template{}, false
}

// NewFromTemplate seeds a Show from a template. The caller supplies title and
// cast before handing it to Store.Create.
func NewFromTemplate(tpl Template) Show {
	return Show{
		Description:    tpl.Description,
		Format:         tpl.Format,
		TargetDuration: tpl.TargetDuration,
		VisualStyle:    tpl.VisualStyle,
	}
}
