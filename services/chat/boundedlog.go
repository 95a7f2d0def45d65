package chat

import "studygroup/storage"

// GlobalChatLimit is the maximum number of messages retained in the shared
// chat log. Part of the stored-data contract.
const GlobalChatLimit = 50

// boundedLog is a FIFO over the global chat slice: push appends and evicts
// the oldest entries once the limit is exceeded.
type boundedLog struct {
	max  int
	msgs []storage.GlobalMessage
}

func (b *boundedLog) push(msg storage.GlobalMessage) {
	b.msgs = append(b.msgs, msg)
	if over := len(b.msgs) - b.max; over > 0 {
		b.msgs = b.msgs[over:]
	}
}

func (b *boundedLog) len() int {
	return len(b.msgs)
}
