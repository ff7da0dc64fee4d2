// Package testutil holds fakes shared by package tests: a scripted command
// executor standing in for ffmpeg/ffprobe and a canned transcription service.
package testutil
