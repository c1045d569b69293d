// Package uistate holds the per-visitor interface state: language, text direction, the search
// panel and the subscription form status.
package uistate

import (
	"slices"
	"strings"
	"sync"

	"github.com/alsafar-partners/legal-web/internal/search"
)

// Language is a supported interface language.
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// Supported lists the interface languages in display order.
var Supported = []Language{English, Arabic}

// ParseLanguage maps a language tag to a supported Language. Anything unknown is English.
func ParseLanguage(raw string) Language {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexAny(raw, "-_"); i > 0 {
		raw = raw[:i]
	}
	if raw == string(Arabic) {
		return Arabic
	}
	return English
}

// Direction is the text direction of a language.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// DirectionFor returns rtl for Arabic and ltr for everything else.
func DirectionFor(lang Language) Direction {
	if lang == Arabic {
		return RTL
	}
	return LTR
}

// Status is the subscription form state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ParseStatus maps a stored status back to a Status; unknown values are idle.
func ParseStatus(raw string) Status {
	switch s := Status(raw); s {
	case StatusLoading, StatusSuccess, StatusError:
		return s
	default:
		return StatusIdle
	}
}

// Subscription is the footer form status. Message is a locale key.
type Subscription struct {
	Status  Status
	Message string
}

// State is a value snapshot of the interface state.
type State struct {
	Lang          Language
	Dir           Direction
	SearchOpen    bool
	SearchQuery   string
	SearchResults search.Results
	Subscription  Subscription
}

// Store guards one visitor's State. Transitions are synchronous and never perform I/O.
type Store struct {
	mu    sync.Mutex
	state State
}

// New creates a Store in its initial state for lang.
func New(lang Language) *Store {
	lang = ParseLanguage(string(lang))
	return &Store{state: State{
		Lang:          lang,
		Dir:           DirectionFor(lang),
		SearchResults: emptyResults(),
		Subscription:  Subscription{Status: StatusIdle},
	}}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.SearchResults = search.Results{
		Team:     slices.Clone(s.state.SearchResults.Team),
		Services: slices.Clone(s.state.SearchResults.Services),
	}
	return out
}

// ToggleLanguage switches between English and Arabic and updates the direction.
func (s *Store) ToggleLanguage() State {
	return s.update(func(st *State) {
		next := Arabic
		if st.Lang == Arabic {
			next = English
		}
		st.Lang = next
		st.Dir = DirectionFor(next)
	})
}

// SetLanguage sets the language; unknown languages become English.
func (s *Store) SetLanguage(lang Language) State {
	return s.update(func(st *State) {
		st.Lang = ParseLanguage(string(lang))
		st.Dir = DirectionFor(st.Lang)
	})
}

// OpenSearch shows the search panel.
func (s *Store) OpenSearch() State {
	return s.update(func(st *State) { st.SearchOpen = true })
}

// CloseSearch hides the search panel and clears the query and results.
func (s *Store) CloseSearch() State {
	return s.update(func(st *State) {
		st.SearchOpen = false
		st.SearchQuery = ""
		st.SearchResults = emptyResults()
	})
}

// SetSearchQuery records the text typed into the search panel.
func (s *Store) SetSearchQuery(q string) State {
	return s.update(func(st *State) { st.SearchQuery = q })
}

// SetSearchResults replaces the panel results wholesale.
func (s *Store) SetSearchResults(res search.Results) State {
	return s.update(func(st *State) {
		st.SearchResults = search.Results{
			Team:     slices.Clone(res.Team),
			Services: slices.Clone(res.Services),
		}
		if st.SearchResults.Team == nil {
			st.SearchResults.Team = emptyResults().Team
		}
		if st.SearchResults.Services == nil {
			st.SearchResults.Services = emptyResults().Services
		}
	})
}

// SetSubscription sets the form status and message key.
func (s *Store) SetSubscription(status Status, message string) State {
	return s.update(func(st *State) {
		st.Subscription = Subscription{Status: ParseStatus(string(status)), Message: message}
	})
}

// ResetSubscription returns the form to idle.
func (s *Store) ResetSubscription() State {
	return s.update(func(st *State) { st.Subscription = Subscription{Status: StatusIdle} })
}

func (s *Store) update(fn func(*State)) State {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	return s.Snapshot()
}

func emptyResults() search.Results {
	return search.Local("", nil, nil)
}
