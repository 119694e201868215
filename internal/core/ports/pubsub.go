package ports

const AnyTopic = "*"
const UnspecifiedTopic = ""

type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// PubSubStore defines the methods to manage the internal store of a
// SecurePubSub service.
type PubSubStore interface {
	// Init initializes the store, creating the internal buckets.
	Init() error
	// Close should be used to gracefully close the connection with the store.
	Close() error
}

// SecurePubSub defines the methods of a pubsub service and its internal
// store. Messages published for a topic are delivered to all its
// subscriptions, signed when the subscription demands it.
type SecurePubSub interface {
	// Store returns the internal store.
	Store() PubSubStore
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed
	// for a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic will receive the message.
	Publish(topic string, message string) error
}
