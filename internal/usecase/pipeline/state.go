package pipeline

// ProducerState tracks the producer task lifecycle
type ProducerState int32

const (
	ProducerIdle ProducerState = iota
	ProducerReading
	ProducerEmitting
	ProducerDone
)

func (s ProducerState) String() string {
	switch s {
	case ProducerIdle:
		return "idle"
	case ProducerReading:
		return "reading"
	case ProducerEmitting:
		return "emitting"
	case ProducerDone:
		return "done"
	default:
		return "unknown"
	}
}

// ConsumerState tracks the consumer task lifecycle
type ConsumerState int32

const (
	ConsumerIdle ConsumerState = iota
	ConsumerWaiting
	ConsumerProcessing
	ConsumerStopped
)

func (s ConsumerState) String() string {
	switch s {
	case ConsumerIdle:
		return "idle"
	case ConsumerWaiting:
		return "waiting"
	case ConsumerProcessing:
		return "processing"
	case ConsumerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
