package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/spicd/internal/config"
)

// platformArgs points the bound files and pid file into a temp directory.
func platformArgs(t *testing.T) (dir string, args []string) {
	t.Helper()
	dir = t.TempDir()
	minPath := filepath.Join(dir, "speed-min")
	maxPath := filepath.Join(dir, "speed-max")
	require.NoError(t, os.WriteFile(minPath, []byte("300000\n"), 0644))
	require.NoError(t, os.WriteFile(maxPath, []byte("1200000\n"), 0644))

	return dir, []string{
		"--cpufreq-min", minPath,
		"--cpufreq-max", maxPath,
		"--pid-file", filepath.Join(dir, "spicd.pid"),
		"--spic-device", filepath.Join(dir, "sonypi"),
		"--cpufreq-device", filepath.Join(dir, "speed"),
	}
}

func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Version(t *testing.T) {
	code, stdout, stderr := runCLI("-V")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "spicd dev")
}

func TestRun_Help(t *testing.T) {
	for _, arg := range []string{"-?", "--help"} {
		t.Run(arg, func(t *testing.T) {
			code, _, stderr := runCLI(arg)
			assert.Equal(t, 1, code)
			for _, flag := range []string{"--debug", "--dc-brightness", "--ac-brightness",
				"--dc-frequency", "--ac-frequency", "--disable-cpufreq", "--version"} {
				assert.Contains(t, stderr, flag)
			}
			assert.NotContains(t, stderr, "--pid-file", "path overrides are hidden")
		})
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, stderr := runCLI("--bogus")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown flag")
	assert.Contains(t, stderr, "Usage:")
}

func TestRun_ShowConfigDefaults(t *testing.T) {
	_, args := platformArgs(t)
	code, stdout, stderr := runCLI(append([]string{"show-config", "--format", "toml"}, args...)...)
	require.Equal(t, 0, code, stderr)

	var r config.Resolved
	require.NoError(t, toml.Unmarshal([]byte(stdout), &r))
	assert.Equal(t, 255, r.Config.ACBrightness)
	assert.Equal(t, 0, r.Config.DCBrightness)
	assert.Equal(t, uint64(1200000), r.Config.ACFrequency)
	assert.Equal(t, uint64(300000), r.Config.DCFrequency)
	assert.Equal(t, config.Bounds{Min: 300000, Max: 1200000}, r.Bounds)
}

func TestRun_ShowConfigOverrides(t *testing.T) {
	_, args := platformArgs(t)
	code, stdout, stderr := runCLI(append([]string{"show-config", "-f", "toml",
		"-A", "180", "-D", "400", "-M", "900000", "-m", "5", "-C", "-d"}, args...)...)
	require.Equal(t, 0, code, stderr)

	var r config.Resolved
	require.NoError(t, toml.Unmarshal([]byte(stdout), &r))
	assert.Equal(t, 180, r.Config.ACBrightness)
	assert.Equal(t, config.DefaultDCBrightness, r.Config.DCBrightness, "out of range resets to default")
	assert.Equal(t, uint64(900000), r.Config.ACFrequency)
	assert.Equal(t, uint64(300000), r.Config.DCFrequency, "below minimum resets to minimum")
	assert.True(t, r.Config.DisableCPUFreq)
	assert.True(t, r.Config.Debug)

	assert.Contains(t, stderr, "DC brightness is out of range")
	assert.Contains(t, stderr, "DC frequency is out of range")
}

func TestRun_ShowConfigUnrepresentableNumbers(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		wantAC int
		wantDC int
		acFreq uint64
		dcFreq uint64
		kept   bool
	}{
		{"negative dc frequency", []string{"-m", "-5"}, 255, 0, 1200000, 300000, false},
		{"negative ac frequency", []string{"-M", "-1"}, 255, 0, 1200000, 300000, false},
		{"negative long form", []string{"--ac-frequency=-100"}, 255, 0, 1200000, 300000, false},
		{"overflowing frequency", []string{"-M", "18446744073709551616"}, 255, 0, 1200000, 300000, false},
		{"overflowing brightness", []string{"-A", "99999999999999999999"}, 255, 0, 1200000, 300000, false},
		{"negative brightness", []string{"-D", "-7", "-A", "-7"}, 255, 0, 1200000, 300000, false},
		{"not a number", []string{"-A", "bright", "-m", "slow"}, 255, 0, 1200000, 300000, false},
		{"valid values kept", []string{"-A", "100", "-m", "600000"}, 100, 0, 1200000, 600000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args := platformArgs(t)
			cli := append([]string{"show-config", "-f", "toml", "-d"}, tt.args...)
			code, stdout, stderr := runCLI(append(cli, args...)...)
			require.Equal(t, 0, code, stderr)

			var r config.Resolved
			require.NoError(t, toml.Unmarshal([]byte(stdout), &r))
			assert.Equal(t, tt.wantAC, r.Config.ACBrightness)
			assert.Equal(t, tt.wantDC, r.Config.DCBrightness)
			assert.Equal(t, tt.acFreq, r.Config.ACFrequency)
			assert.Equal(t, tt.dcFreq, r.Config.DCFrequency)
			if !tt.kept {
				assert.Contains(t, stderr, "is out of range, using default")
			}
		})
	}
}

func TestRun_ShowConfigText(t *testing.T) {
	_, args := platformArgs(t)
	code, stdout, _ := runCLI(append([]string{"show-config", "-C"}, args...)...)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "CPU frequency:   disabled")
	assert.Contains(t, stdout, "300 MHz - 1.2 GHz")
}

func TestRun_ShowConfigBadFormat(t *testing.T) {
	_, args := platformArgs(t)
	code, _, stderr := runCLI(append([]string{"show-config", "-f", "json"}, args...)...)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown format")
}

func TestRun_AlreadyRunning(t *testing.T) {
	dir, args := platformArgs(t)
	pidPath := filepath.Join(dir, "spicd.pid")
	require.NoError(t, os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getppid())+"\n"), 0644))

	code, _, stderr := runCLI(append([]string{"-F"}, args...)...)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already appears to be running")

	_, err := os.Stat(pidPath)
	assert.NoError(t, err, "pid file of the running instance must be kept")
}

func TestRun_MissingSPICDevice(t *testing.T) {
	if os.Getuid() != 0 {
		t.Skip("requires root")
	}

	dir, args := platformArgs(t)
	code, _, stderr := runCLI(append([]string{"-F"}, args...)...)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "open sonypi device")

	_, err := os.Stat(filepath.Join(dir, "spicd.pid"))
	assert.True(t, os.IsNotExist(err), "pid file must not be left behind")
}

func TestRun_NotRoot(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root")
	}

	_, args := platformArgs(t)
	code, _, stderr := runCLI(append([]string{"-F"}, args...)...)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "must be run as root")
}
