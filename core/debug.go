package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a dispatch event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Track     uint8  // Track number, if any
	Micros    uint32 // Dispatch-relative time in microseconds
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtStatus    = 1  // status frame read (v1=status byte)
	EvtTrackLoad = 2  // track read from image (v1=bytes read)
	EvtTrackSend = 3  // track written to FPGA
	EvtButton    = 4  // button frame read (v1=button byte)
	EvtOverrun   = 5  // dispatch exceeded latency budget (v1=elapsed us, v2=budget us)
	EvtCoalesced = 6  // edge arrived while a dispatch was pending or running
	EvtFault     = 7  // transport fault aborted the dispatch
	EvtOpenFail  = 8  // image selection failed
	EvtReadFail  = 9  // track read failed, nothing sent
	EvtListFail  = 10 // directory listing failed
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, for post-mortem)
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8        // Next write position
	timingEnabled  bool  = true // Always capture timing events
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, a host logger, etc.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(s string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer.
// It blocks on the writer, so it must not be called from interrupt
// context; code reachable from the edge handler uses RecordTiming.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTiming captures a timing event in the ring buffer.
// Safe to call from interrupt context.
func RecordTiming(eventType, track uint8, micros, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	state := disableInterrupts()
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Track:     track,
		Micros:    micros,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
	restoreInterrupts(state)
}

// TimingEvents returns the recorded events, oldest first
func TimingEvents() []TimingEvent {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	events := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// EventName returns the short name printed for an event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtStatus:
		return "STATUS"
	case EvtTrackLoad:
		return "TRACK_LOAD"
	case EvtTrackSend:
		return "TRACK_SEND"
	case EvtButton:
		return "BUTTON"
	case EvtOverrun:
		return "OVERRUN!"
	case EvtCoalesced:
		return "COALESCED"
	case EvtFault:
		return "FAULT!"
	case EvtOpenFail:
		return "OPEN_FAIL"
	case EvtReadFail:
		return "READ_FAIL!"
	case EvtListFail:
		return "LIST_FAIL"
	default:
		return "UNKNOWN"
	}
}

// DumpTimingRing outputs the timing ring buffer (call on shutdown/error).
// Goes straight to the writer, ignoring SetDebugEnabled.
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	for _, evt := range TimingEvents() {
		debugPrintln("[TIMING] " + EventName(evt.EventType) +
			" track=" + itoa(int(evt.Track)) +
			" us=" + utoa(evt.Micros) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}
