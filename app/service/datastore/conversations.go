package datastore

import (
	"log/slog"
	"strings"
	"time"

	"github.com/elliotchance/pie/v2"
)

// maxRecentConversations caps how many conversations stay queryable in
// full after retention has dropped everything older than the window.
const maxRecentConversations = 5

const retentionWindow = 24 * time.Hour

// keyPointKeywords marks sentences worth carrying into long-term memory
// once their conversation is evicted.
var keyPointKeywords = []string{
	"remember", "don't forget", "important", "schedule", "appointment",
	"meeting", "event", "reminder", "preference", "like", "dislike",
	"favorite", "birthday", "anniversary", "deadline",
}

// AddConversation records one query/response exchange, extracts its key
// points, runs retention and persists. The returned conversation is the
// stored record.
func (s *Service) AddConversation(query, response string) (Conversation, error) {
	now := s.now()

	conv := Conversation{
		Timestamp: now.Format(timestampLayout),
		Query:     query,
		Response:  response,
		KeyPoints: extractKeyPoints(query, response),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Conversations = append(s.doc.Conversations, conv)
	s.pruneConversations(now)

	if err := s.save(); err != nil {
		return Conversation{}, err
	}

	return conv, nil
}

func extractKeyPoints(query, response string) []string {
	keyPoints := []string{}

	for _, sentence := range strings.Split(query+" "+response, ".") {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 10 {
			continue
		}

		lower := strings.ToLower(sentence)
		for _, keyword := range keyPointKeywords {
			if strings.Contains(lower, keyword) {
				keyPoints = append(keyPoints, sentence)
				break
			}
		}
	}

	return keyPoints
}

// pruneConversations applies the retention policy: conversations younger
// than the window stay in full, older ones leave only their key points
// behind (deduplicated by exact text), and at most the last
// maxRecentConversations survive by storage order. A conversation whose
// timestamp cannot be parsed is kept rather than silently lost.
func (s *Service) pruneConversations(now time.Time) {
	kept := make([]Conversation, 0, len(s.doc.Conversations))
	var preserved []string

	for _, conv := range s.doc.Conversations {
		ts, err := parseTimestamp(conv.Timestamp)
		if err != nil {
			slog.Warn("Keeping conversation with unparsable timestamp", "timestamp", conv.Timestamp)
			kept = append(kept, conv)
			continue
		}

		if now.Sub(ts) < retentionWindow {
			kept = append(kept, conv)
		} else {
			preserved = append(preserved, conv.KeyPoints...)
		}
	}

	if len(kept) > maxRecentConversations {
		kept = kept[len(kept)-maxRecentConversations:]
	}

	for _, point := range preserved {
		if !pie.Contains(s.doc.LongTermMemory.KeyPoints, point) {
			s.doc.LongTermMemory.KeyPoints = append(s.doc.LongTermMemory.KeyPoints, point)
		}
	}

	s.doc.Conversations = kept
}

// RecentConversations returns the last limit conversations in storage
// order. A non-positive limit defaults to 5.
func (s *Service) RecentConversations(limit int) []Conversation {
	if limit <= 0 {
		limit = maxRecentConversations
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	conversations := s.doc.Conversations
	if len(conversations) > limit {
		conversations = conversations[len(conversations)-limit:]
	}

	return append([]Conversation{}, conversations...)
}

// ConversationsForDate matches conversations whose timestamp starts with
// the given YYYY-MM-DD date.
func (s *Service) ConversationsForDate(date string) []Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pie.Filter(s.doc.Conversations, func(conv Conversation) bool {
		return strings.HasPrefix(conv.Timestamp, date)
	})
}

// LongTermMemory returns all accumulated key points in insertion order.
func (s *Service) LongTermMemory() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string{}, s.doc.LongTermMemory.KeyPoints...)
}
