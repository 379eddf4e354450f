package config

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is an output format for Render.
type Format string

const (
	FormatText Format = "text"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ValidFormats returns all valid render formats.
func ValidFormats() []Format {
	return []Format{FormatText, FormatTOML, FormatYAML}
}

// FormatFrequency renders a kHz value with an SI prefix, e.g. "1.2 GHz".
func FormatFrequency(khz uint64) string {
	return humanize.SI(float64(khz)*1000, "Hz")
}

// Resolved is a resolved configuration together with the bounds it was
// clamped against.
type Resolved struct {
	Config Config `toml:"config" yaml:"config"`
	Bounds Bounds `toml:"bounds" yaml:"bounds"`
}

// Render writes r to w in the given format.
func Render(w io.Writer, r Resolved, format Format) error {
	switch format {
	case FormatTOML:
		data, err := toml.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatText, "":
		return renderText(w, r)
	default:
		return fmt.Errorf("unknown format %q (valid: %v)", format, ValidFormats())
	}
}

func renderText(w io.Writer, r Resolved) error {
	c := r.Config
	_, err := fmt.Fprintf(w,
		"AC brightness:   %d\n"+
			"DC brightness:   %d\n"+
			"AC frequency:    %s (%d)\n"+
			"DC frequency:    %s (%d)\n"+
			"Frequency range: %s - %s\n"+
			"CPU frequency:   %s\n"+
			"SPIC device:     %s\n"+
			"PID file:        %s\n",
		c.ACBrightness,
		c.DCBrightness,
		FormatFrequency(c.ACFrequency), c.ACFrequency,
		FormatFrequency(c.DCFrequency), c.DCFrequency,
		FormatFrequency(r.Bounds.Min), FormatFrequency(r.Bounds.Max),
		cpufreqState(c),
		c.Paths.SPICDevice,
		c.Paths.PIDFile,
	)
	return err
}

func cpufreqState(c Config) string {
	if c.DisableCPUFreq {
		return "disabled"
	}
	return c.Paths.CPUFreqDevice
}
