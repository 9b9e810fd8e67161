package webhook

import (
	"encoding/xml"
	"fmt"
	"hash/crc32"
	"strings"
	"unicode/utf8"
)

const maxSMSLen = 160

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Sms     []string `xml:"Sms"`
}

// TwiML wraps a reply in a Twilio response, one <Sms> per chunk.
func TwiML(reply string) ([]byte, error) {
	out, err := xml.Marshal(twimlResponse{Sms: SplitSMS(reply, maxSMSLen)})
	if err != nil {
		return nil, fmt.Errorf("marshal twiml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// SplitSMS cuts msg into chunks of at most max bytes, preferring the last
// space or line break before the limit.
func SplitSMS(msg string, max int) []string {
	var chunks []string
	for len(msg) > max {
		cut := strings.LastIndexAny(msg[:max], " \n")
		if cut <= 0 {
			cut = max
			for cut > 0 && !utf8.RuneStart(msg[cut]) {
				cut--
			}
			chunks = append(chunks, msg[:cut])
			msg = msg[cut:]
			continue
		}
		chunks = append(chunks, msg[:cut])
		msg = msg[cut+1:]
	}
	if msg != "" {
		chunks = append(chunks, msg)
	}
	return chunks
}

// CallerID masks a phone number as the CRC-32 of the sender.
func CallerID(from string) string {
	if from == "" {
		return "0"
	}
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE([]byte(from)))
}
