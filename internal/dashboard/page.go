package dashboard

import (
	"bytes"
	"encoding/json"
	"log"

	"github.com/nhle/focusflow/internal/model"
)

// messagesGlobal is the script global the dashboard template fills with
// flash messages.
const messagesGlobal = "window.__django_messages__"

// ExtractMessages finds the embedded message array in a dashboard page.
// A page without the global, or with anything other than a well-formed
// array in it, yields no messages. Problems are logged and never fail the
// page load.
func ExtractMessages(page []byte) []model.ServerMessage {
	i := bytes.Index(page, []byte(messagesGlobal))
	if i < 0 {
		return nil
	}
	rest := page[i+len(messagesGlobal):]

	eq := bytes.IndexByte(rest, '=')
	if eq < 0 {
		log.Printf("%s has no assignment; ignoring messages", messagesGlobal)
		return nil
	}
	rest = bytes.TrimLeft(rest[eq+1:], " \t\r\n")
	if len(rest) == 0 || rest[0] != '[' {
		return nil
	}

	// The decoder stops at the end of the array and ignores the rest of
	// the script.
	var msgs []model.ServerMessage
	if err := json.NewDecoder(bytes.NewReader(rest)).Decode(&msgs); err != nil {
		log.Printf("decoding %s: %v; ignoring messages", messagesGlobal, err)
		return nil
	}

	out := msgs[:0]
	for _, m := range msgs {
		if m.Text != "" {
			out = append(out, m)
		}
	}
	return out
}
