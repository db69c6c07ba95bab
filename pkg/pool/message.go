package pool

import (
	"github.com/oklog/ulid/v2"

	"github.com/jzx17/roundpool/pkg/codec"
)

// Message is a single item delivered to a worker inbox. Messages to a single worker
// arrive in send order; nothing is guaranteed across workers.
type Message struct {
	// ID is a unique message identifier, usable for log correlation
	ID string

	// Payload is the serialized task payload
	Payload codec.Payload

	// Reply is the worker-side endpoint of the task channel. It is nil
	// for broadcast messages, which expect no response.
	Reply *ReplyPort
}

func newMessage(payload codec.Payload, reply *ReplyPort) Message {
	return Message{
		ID:      ulid.Make().String(),
		Payload: payload,
		Reply:   reply,
	}
}

// ReplyPort is the worker-side endpoint of a task channel. The worker
// must eventually call Reply exactly once per request message. Surplus
// replies are reported as errors and dropped.
type ReplyPort struct {
	tc    *taskChannel
	codec codec.Codec
}

// Reply serializes v and posts it as the single response
func (r *ReplyPort) Reply(v interface{}) error {
	p, err := r.codec.Marshal(v)
	if err != nil {
		return err
	}
	return r.tc.reply(p)
}
