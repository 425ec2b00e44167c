// 세션별 채팅 기록 (메모리 전용, 재시작 시 소멸)
//
// 같은 세션의 턴은 Lock으로 직렬화하고, 세션 간에는 공유 상태 없음.
// 유휴 시간이 idleTTL을 넘은 세션은 다음 접근 시 정리.

package service

import (
	"sync"
	"time"

	"github.com/kube-rca/incident-chat/internal/model"
)

type chatSession struct {
	turnMu   sync.Mutex
	turns    []model.ChatTurn
	lastSeen time.Time
	active   int
}

// TranscriptStore 구조체 정의
type TranscriptStore struct {
	mu       sync.Mutex
	sessions map[string]*chatSession
	idleTTL  time.Duration
	now      func() time.Time
}

func NewTranscriptStore(idleTTL time.Duration) *TranscriptStore {
	return &TranscriptStore{
		sessions: make(map[string]*chatSession),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// 세션 턴 잠금. 반환된 함수로 해제
func (s *TranscriptStore) Lock(sessionID string) func() {
	s.mu.Lock()
	sess := s.session(sessionID)
	sess.active++
	s.mu.Unlock()

	sess.turnMu.Lock()
	return func() {
		sess.turnMu.Unlock()
		s.mu.Lock()
		sess.active--
		sess.lastSeen = s.now()
		s.mu.Unlock()
	}
}

func (s *TranscriptStore) Append(sessionID string, turn model.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(sessionID)
	sess.turns = append(sess.turns, turn)
}

// 복사본 반환 (호출자가 수정해도 기록에 영향 없음)
func (s *TranscriptStore) Turns(sessionID string) []model.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return []model.ChatTurn{}
	}
	sess.lastSeen = s.now()
	out := make([]model.ChatTurn, len(sess.turns))
	copy(out, sess.turns)
	return out
}

// s.mu 보유 상태에서 호출
func (s *TranscriptStore) session(sessionID string) *chatSession {
	now := s.now()
	s.evictIdle(now)

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &chatSession{}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = now
	return sess
}

func (s *TranscriptStore) evictIdle(now time.Time) {
	if s.idleTTL <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if sess.active == 0 && now.Sub(sess.lastSeen) > s.idleTTL {
			delete(s.sessions, id)
		}
	}
}
