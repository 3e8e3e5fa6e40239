// Package engine runs the control loop: one JSON command per input line,
// one JSON response per output line.
package engine

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/compulsive-quake/rage-pad/internal/devices"
	"github.com/compulsive-quake/rage-pad/internal/mixer"
	"github.com/compulsive-quake/rage-pad/internal/protocol"
)

// Driver reads commands from an input stream, applies them to the mixer,
// and writes exactly one response per command, flushed immediately so the
// controller can treat the channel as synchronous request/response.
type Driver struct {
	mixer *mixer.Mixer
	dir   devices.Directory
	log   zerolog.Logger
}

// New creates a Driver over the given mixer and device directory.
func New(m *mixer.Mixer, dir devices.Directory, log zerolog.Logger) *Driver {
	return &Driver{mixer: m, dir: dir, log: log}
}

// Run processes commands until a shutdown command arrives or the input
// closes. Blank lines are ignored; a line that fails to parse produces an
// error response and the session continues. A panic during processing is
// converted into one final error response before Run returns, so the
// controller always receives a machine-readable terminal message.
func (d *Driver) Run(in io.Reader, out io.Writer) (err error) {
	w := bufio.NewWriter(out)

	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Msg("Unrecoverable failure in command loop")
			d.write(w, protocol.Errorf("internal error: %v", r))
			err = fmt.Errorf("panic in command loop: %v", r)
		}
	}()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		cmd, perr := protocol.ParseCommand(line)
		if perr != nil {
			d.log.Warn().Err(perr).Msg("Rejected command line")
			if werr := d.write(w, protocol.Error(perr.Error())); werr != nil {
				return werr
			}
			continue
		}

		d.log.Debug().Str("cmd", cmd.Cmd).Msg("Dispatching command")
		resp, done := d.dispatch(cmd)
		if werr := d.write(w, resp); werr != nil {
			return werr
		}
		if done {
			d.log.Info().Msg("Shutdown acknowledged")
			return nil
		}
	}

	// A read failure (as opposed to a clean end of input) still owes the
	// controller one final machine-readable message.
	if rerr := scanner.Err(); rerr != nil {
		d.log.Error().Err(rerr).Msg("Input read failed")
		if werr := d.write(w, protocol.Errorf("input read error: %v", rerr)); werr != nil {
			return werr
		}
		return rerr
	}
	return nil
}

// dispatch maps one command to a mixer or directory operation. done is
// true only for shutdown; no command is processed after it.
func (d *Driver) dispatch(cmd protocol.Command) (resp protocol.Response, done bool) {
	switch cmd.Cmd {
	case protocol.CmdListDevices:
		return protocol.Devices(d.dir.ListInputs(), d.dir.ListOutputs()), false

	case protocol.CmdSetInputDevice:
		if err := d.mixer.SetInputDevice(cmd.DeviceName); err != nil {
			return protocol.Error(err.Error()), false
		}
		return protocol.Ok(), false

	case protocol.CmdSetOutputDevice:
		if err := d.mixer.SetOutputDevice(cmd.DeviceName); err != nil {
			return protocol.Error(err.Error()), false
		}
		return protocol.Ok(), false

	case protocol.CmdPlay:
		if err := d.mixer.PlayFile(cmd.FilePath, cmd.PlayVolume()); err != nil {
			return protocol.Error(err.Error()), false
		}
		return protocol.Ok(), false

	case protocol.CmdStop:
		d.mixer.Stop()
		return protocol.Ok(), false

	case protocol.CmdPause:
		d.mixer.Pause()
		return protocol.Ok(), false

	case protocol.CmdResume:
		d.mixer.Resume()
		return protocol.Ok(), false

	case protocol.CmdSetVolume:
		d.mixer.SetVolume(*cmd.Volume)
		return protocol.Ok(), false

	case protocol.CmdGetStatus:
		st := d.mixer.Status()
		return protocol.Status(st.Playing, st.Paused, st.Volume, st.InputDevice, st.OutputDevice), false

	case protocol.CmdShutdown:
		return protocol.Ok(), true

	default:
		// ParseCommand rejects unknown kinds before dispatch.
		return protocol.Errorf("unknown command %q", cmd.Cmd), false
	}
}

// write emits one response line and flushes it.
func (d *Driver) write(w *bufio.Writer, resp protocol.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}
