package audio

import (
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// player describes a CLI program that plays raw stereo s16le from stdin
type player struct {
	kind   BackendType
	name   string
	binary string
	args   func(rate string) []string
}

// players in priority order: pacat > pw-cat > aplay > play (sox) > ffplay
var players = []player{
	{BackendPulse, "pacat", "pacat", func(rate string) []string {
		return []string{"--raw", "--format=s16le", "--rate=" + rate, "--channels=2", "--latency-msec=50", "--playback"}
	}},
	{BackendPipeWire, "pw-cat", "pw-cat", func(rate string) []string {
		return []string{"--playback", "--format=s16", "--rate=" + rate, "--channels=2", "--latency=50ms", "-"}
	}},
	{BackendALSA, "aplay", "aplay", func(rate string) []string {
		return []string{"-t", "raw", "-f", "S16_LE", "-r", rate, "-c", "2", "-q"}
	}},
	{BackendSoX, "sox", "play", func(rate string) []string {
		return []string{"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", rate, "-", "-d", "-q"}
	}},
	{BackendFFplay, "ffplay", "ffplay", func(rate string) []string {
		return []string{
			"-nodisp", "-autoexit",
			"-f", "s16le", "-ac", "2", "-ar", rate,
			"-probesize", "32", "-analyzeduration", "0",
			"-i", "pipe:0", "-loglevel", "quiet",
		}
	}},
}

// ossDevice is written directly on FreeBSD when no player is installed
const ossDevice = "/dev/dsp"

// DetectBackend returns the first available player on PATH configured for
// sampleRate, falling back to the OSS device on FreeBSD
func DetectBackend(sampleRate int) (*BackendConfig, error) {
	rate := strconv.Itoa(sampleRate)

	for _, p := range players {
		path, err := exec.LookPath(p.binary)
		if err != nil {
			continue
		}
		return &BackendConfig{Type: p.kind, Name: p.name, Path: path, Args: p.args(rate)}, nil
	}

	if runtime.GOOS == "freebsd" {
		if _, err := os.Stat(ossDevice); err == nil {
			return &BackendConfig{Type: BackendOSS, Name: "oss", Path: ossDevice}, nil
		}
	}
	return nil, ErrNoAudioBackend
}
