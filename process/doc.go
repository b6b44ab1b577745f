// Package process runs external tools such as ffmpeg with context
// cancellation that terminates the whole process group.
package process
