package audio

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
)

// pipeSink streams through a CLI player's stdin, an OSS device, or
// nowhere when backend is nil
type pipeSink struct {
	backend *BackendConfig
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	ossFile *os.File // For direct OSS writes
	mixer   *Mixer

	errChan chan error
	running atomic.Bool
	wg      sync.WaitGroup
}

func newPipeSink(backend *BackendConfig) *pipeSink {
	return &pipeSink{
		backend: backend,
		errChan: make(chan error, 1),
	}
}

func (s *pipeSink) Name() string {
	if s.backend == nil {
		return string(SinkDiscard)
	}
	return s.backend.Name
}

func (s *pipeSink) Start(src FrameSource, sampleRate int) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}

	var writer io.Writer
	switch {
	case s.backend == nil:
		writer = io.Discard

	case s.backend.Type == BackendOSS:
		f, err := os.OpenFile(s.backend.Path, os.O_WRONLY, 0)
		if err != nil {
			s.running.Store(false)
			return err
		}
		s.ossFile = f
		writer = f

	default:
		cmd := exec.Command(s.backend.Path, s.backend.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			s.running.Store(false)
			return err
		}
		if err := cmd.Start(); err != nil {
			stdin.Close()
			s.running.Store(false)
			return err
		}
		s.cmd = cmd
		s.stdin = stdin
		writer = stdin

		s.wg.Add(1)
		go s.monitorProcess()
	}

	s.mixer = NewMixer(writer, src, sampleRate)
	s.mixer.Start()

	s.wg.Add(1)
	go s.monitorMixer()
	return nil
}

// monitorProcess watches for subprocess exit
func (s *pipeSink) monitorProcess() {
	defer s.wg.Done()

	err := s.cmd.Wait()
	if err != nil && s.running.Load() {
		s.report(err)
	}
}

// monitorMixer forwards pipe errors
func (s *pipeSink) monitorMixer() {
	defer s.wg.Done()

	select {
	case err := <-s.mixer.Errors():
		s.report(err)
	case <-s.mixer.stopChan:
	}
}

func (s *pipeSink) report(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

func (s *pipeSink) Errors() <-chan error { return s.errChan }

func (s *pipeSink) SetMuted(muted bool) {
	if s.mixer != nil {
		s.mixer.SetMuted(muted)
	}
}

func (s *pipeSink) Close() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}

	if s.mixer != nil {
		s.mixer.Stop()
	}
	if s.stdin != nil {
		s.stdin.Close()
	}
	if s.ossFile != nil {
		s.ossFile.Close()
	}
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}

	s.wg.Wait()
}
