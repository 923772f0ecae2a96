package events

// Publisher publishes tournament events to downstream consumers.
type Publisher interface {
	Publish(topic Topic, data any) error
	Decode(data []byte, returnValue any) error
}

// Topic identifies the kind of event being published.
type Topic string

const (
	TopicMatchResult          Topic = "match-result"
	TopicRegistrationDecision Topic = "registration-decision"
)
