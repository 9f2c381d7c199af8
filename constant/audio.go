package constant

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate    = 44100
	AudioChannels      = 2
	AudioBitDepth      = 16
	AudioBytesPerFrame = AudioChannels * (AudioBitDepth / 8) // 4 bytes

	// ExportChannels is the channel count of offline renders and WAV files
	ExportChannels = 1
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines latency and pipe mixer tick rate
	AudioBufferDuration = 50 * time.Millisecond

	// SpeakerBufferDuration is the beep speaker buffer size
	SpeakerBufferDuration = 100 * time.Millisecond

	// AudioDrainTimeout for sink cleanup on stop
	AudioDrainTimeout = 100 * time.Millisecond

	// RenderQuantum is frames per graph block, also the minimum delay line length
	RenderQuantum = 128

	// LiveLookahead is how far ahead of the output clock scheduled tasks fire, in seconds
	LiveLookahead = 0.1
)

// Synthesis
const (
	// NoiseBufferSeconds is the length of generated noise buffers
	NoiseBufferSeconds = 2.0

	// EnvelopeFloor replaces zero for exponential automation endpoints
	EnvelopeFloor = 0.0001

	// EnvelopePeakBase is divided by waveform count to get the envelope peak
	EnvelopePeakBase = 0.6

	// EnvelopeDistortionBoost scales peak by (1 + distortion*boost)
	EnvelopeDistortionBoost = 1.5

	// PercussiveAttack is the fixed attack of the percussive shape, in seconds
	PercussiveAttack = 0.005

	// ReverseTail is the short fall of the reverse shape, in seconds
	ReverseTail = 0.01

	// DistortionCurveLength is the number of points in a waveshaper curve
	DistortionCurveLength = 44100

	// DistortionDrive multiplies distortion amount into curve drive k
	DistortionDrive = 400.0

	// NoiseLevel scales noiseAmount on the noise gain stage
	NoiseLevel = 0.3

	// NoiseLifetimePad extends noise sources past attack+decay, in seconds
	NoiseLifetimePad = 0.1

	// NoiseJitterScale scales noiseModulation*frequency on the jitter gain
	NoiseJitterScale = 0.05

	// VibratoScale multiplies vibratoDepth into Hz of frequency modulation
	VibratoScale = 50.0

	// TremoloScale is the LFO half depth relative to lfoAmount
	TremoloScale = 0.5

	// ReverbWetScale scales reverbAmount on the convolver return
	ReverbWetScale = 0.5

	// ReverbSeconds is the length of the generated impulse response
	ReverbSeconds = 2.0

	// ReverbChannels is the channel count of the impulse response
	ReverbChannels = 2

	// EchoFeedback is the fixed feedback gain of the echo line
	EchoFeedback = 0.8

	// EchoTailRepeats is multiplied by echoDelay to give the echo render tail
	EchoTailRepeats = 4.0

	// MaxDelaySeconds bounds every delay line
	MaxDelaySeconds = 2.0
)

// Offline Rendering
const (
	// RenderTailMargin is appended to every render after the last note, in seconds
	RenderTailMargin = 0.1

	// MaxExportSeconds caps a single offline render
	MaxExportSeconds = 120.0

	// OfflineNoiseSeed seeds noise during offline renders so output is reproducible
	OfflineNoiseSeed = 0x5F3759DF

	// ReverbSeed seeds impulse response generation
	ReverbSeed = 0x2545F491
)

// Master Bus Compressor
const (
	CompressorThreshold = -24.0 // dB
	CompressorKnee      = 30.0  // dB
	CompressorRatio     = 12.0
	CompressorAttack    = 0.003 // s
	CompressorRelease   = 0.25  // s
)

// Analyser
const (
	AnalyserFFTSize = 2048
)
