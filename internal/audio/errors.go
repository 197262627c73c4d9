package audio

import "errors"

// ErrNoAudioDevice indicates no audio input device was found or detected.
var ErrNoAudioDevice = errors.New("no audio input device found")

// ErrDeviceRead indicates the capture stream failed while reading samples.
var ErrDeviceRead = errors.New("audio device read failed")

// ErrFormatMismatch indicates a capture source cannot deliver the requested format.
var ErrFormatMismatch = errors.New("audio format mismatch")

// ErrStreamClosed indicates a read was attempted on a closed stream.
var ErrStreamClosed = errors.New("audio stream closed")
