package audio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// Device describes a PortAudio device.
type Device struct {
	Name            string
	MaxInput        int
	MaxOutput       int
	DefaultSampleHz float64
	HostAPI         string
	IsDefaultInput  bool
	IsDefaultOutput bool
}

// ListDevices returns every device sorted by host API and name.
func ListDevices() ([]Device, error) {
	hosts, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("host apis: %w", err)
	}

	defaultInput := -1
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultInput = def.Index
	}

	var devices []Device
	for _, host := range hosts {
		for _, d := range host.Devices {
			devices = append(devices, Device{
				Name:            d.Name,
				MaxInput:        d.MaxInputChannels,
				MaxOutput:       d.MaxOutputChannels,
				DefaultSampleHz: d.DefaultSampleRate,
				HostAPI:         host.Name,
				IsDefaultInput:  d.Index == defaultInput,
				IsDefaultOutput: host.DefaultOutputDevice != nil && d.Index == host.DefaultOutputDevice.Index,
			})
		}
	}

	sort.Slice(devices, func(i, j int) bool {
		if devices[i].HostAPI == devices[j].HostAPI {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].HostAPI < devices[j].HostAPI
	})
	return devices, nil
}

// AutoDetectDevice returns the input device NewCapture picks without a name.
func AutoDetectDevice() (*portaudio.DeviceInfo, error) {
	return findDevice("")
}

// findDevice resolves a name substring, else the default input, else the
// best scoring input device.
func findDevice(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}

	if name != "" {
		needle := strings.ToLower(name)
		for _, d := range devices {
			if d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), needle) {
				return d, nil
			}
		}
		return nil, fmt.Errorf("audio device %q not found", name)
	}

	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil && def.MaxInputChannels > 0 {
		return def, nil
	}

	var best *portaudio.DeviceInfo
	bestScore := 0
	for _, d := range devices {
		if d == nil || d.MaxInputChannels <= 0 {
			continue
		}
		if s := inputScore(d.Name, d.MaxInputChannels); best == nil || s > bestScore {
			best, bestScore = d, s
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no suitable audio input device found")
	}
	return best, nil
}

// inputScore prefers loopback style inputs, which carry what is playing.
func inputScore(name string, channels int) int {
	score := channels
	lower := strings.ToLower(name)
	for _, kw := range []string{"monitor", "loopback", "stereo mix", "what u hear"} {
		if strings.Contains(lower, kw) {
			score += 20
			break
		}
	}
	if strings.Contains(lower, "default") {
		score += 10
	}
	return score
}
