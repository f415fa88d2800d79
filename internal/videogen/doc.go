// Package videogen implements the rendering stage: the combined voice track
// is transcribed, transcript spans are turned into visual scene prompts, each
// scene is rendered through the LTX API, and the clips are stitched and muxed
// with the audio into the final episode video.
package videogen
