// Package protocol defines the JSON control-plane schema: one inbound
// command per line tagged by a "cmd" field, one outbound response per
// line tagged by a "type" field.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Command kinds, the values of the "cmd" discriminator.
const (
	CmdListDevices     = "list_devices"
	CmdSetInputDevice  = "set_input_device"
	CmdSetOutputDevice = "set_output_device"
	CmdPlay            = "play"
	CmdStop            = "stop"
	CmdPause           = "pause"
	CmdResume          = "resume"
	CmdSetVolume       = "set_volume"
	CmdGetStatus       = "get_status"
	CmdShutdown        = "shutdown"
)

// Command is an inbound control message. Which payload fields are
// meaningful depends on Cmd.
type Command struct {
	Cmd        string   `json:"cmd"`
	DeviceName string   `json:"device_name,omitempty"`
	FilePath   string   `json:"file_path,omitempty"`
	Volume     *float32 `json:"volume,omitempty"`
}

// PlayVolume returns the per-file volume of a play command, defaulting to
// 1.0 when the field is absent.
func (c Command) PlayVolume() float32 {
	if c.Volume == nil {
		return 1.0
	}
	return *c.Volume
}

// ParseCommand decodes one input line into a Command, validating the kind
// and the fields it requires.
func ParseCommand(line []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(line, &c); err != nil {
		return Command{}, fmt.Errorf("invalid JSON command: %w", err)
	}

	switch c.Cmd {
	case CmdListDevices, CmdStop, CmdPause, CmdResume, CmdGetStatus, CmdShutdown:
	case CmdSetInputDevice, CmdSetOutputDevice:
		if c.DeviceName == "" {
			return Command{}, fmt.Errorf("%s: missing device_name", c.Cmd)
		}
	case CmdPlay:
		if c.FilePath == "" {
			return Command{}, fmt.Errorf("play: missing file_path")
		}
	case CmdSetVolume:
		if c.Volume == nil {
			return Command{}, fmt.Errorf("set_volume: missing volume")
		}
	case "":
		return Command{}, fmt.Errorf("missing cmd field")
	default:
		return Command{}, fmt.Errorf("unknown command %q", c.Cmd)
	}
	return c, nil
}

// Response is any outbound message; every concrete kind carries a "type"
// discriminator in its JSON form.
type Response interface {
	isResponse()
}

// DevicesResponse lists the available capture and render device names.
type DevicesResponse struct {
	Type   string   `json:"type"`
	Input  []string `json:"input"`
	Output []string `json:"output"`
}

// OkResponse is the generic success acknowledgment.
type OkResponse struct {
	Type string `json:"type"`
}

// StatusResponse reports the mixer transport state. Device fields are
// null until a device has been selected.
type StatusResponse struct {
	Type         string  `json:"type"`
	Playing      bool    `json:"playing"`
	Paused       bool    `json:"paused"`
	Volume       float32 `json:"volume"`
	InputDevice  *string `json:"input_device"`
	OutputDevice *string `json:"output_device"`
}

// ErrorResponse carries a human-readable failure description.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (DevicesResponse) isResponse() {}
func (OkResponse) isResponse()      {}
func (StatusResponse) isResponse()  {}
func (ErrorResponse) isResponse()   {}

// Devices builds a devices response. Nil slices are reported as empty
// lists, never null.
func Devices(input, output []string) DevicesResponse {
	if input == nil {
		input = []string{}
	}
	if output == nil {
		output = []string{}
	}
	return DevicesResponse{Type: "devices", Input: input, Output: output}
}

// Ok builds the success acknowledgment.
func Ok() OkResponse { return OkResponse{Type: "ok"} }

// Status builds a status response. Empty device names serialize as null.
func Status(playing, paused bool, volume float32, inputDevice, outputDevice string) StatusResponse {
	return StatusResponse{
		Type:         "status",
		Playing:      playing,
		Paused:       paused,
		Volume:       volume,
		InputDevice:  optional(inputDevice),
		OutputDevice: optional(outputDevice),
	}
}

// Error builds an error response.
func Error(message string) ErrorResponse {
	return ErrorResponse{Type: "error", Message: message}
}

// Errorf builds an error response from a format string.
func Errorf(format string, args ...any) ErrorResponse {
	return Error(fmt.Sprintf(format, args...))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
