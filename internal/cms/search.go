package cms

import (
	"bytes"
	"encoding/json"
	"errors"
)

// SearchHits is the decoded payload of the CMS search endpoint.
type SearchHits struct {
	Team     []TeamMember
	Services []Service
}

var errNotObject = errors.New("data is not an object")

// DecodeSearchHits decodes `{"data":{"team":[...],"services":[...]}}`. Elements go through the
// same nested/flat decode as collections; a missing list decodes as empty.
func DecodeSearchHits(env *Envelope) (SearchHits, error) {
	if env == nil {
		return SearchHits{}, errAbsent
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '{' {
		return SearchHits{}, &DecodeError{Resource: ResourceSearch, Err: errNotObject}
	}
	var payload struct {
		Team     json.RawMessage `json:"team"`
		Services json.RawMessage `json:"services"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return SearchHits{}, &DecodeError{Resource: ResourceSearch, Err: err}
	}

	hits := SearchHits{Team: []TeamMember{}, Services: []Service{}}
	team, err := decodeOptionalList(payload.Team, buildTeamMember)
	if err != nil {
		return SearchHits{}, err
	}
	hits.Team = append(hits.Team, team...)
	services, err := decodeOptionalList(payload.Services, buildService)
	if err != nil {
		return SearchHits{}, err
	}
	hits.Services = append(hits.Services, services...)
	return hits, nil
}

func decodeOptionalList[F mergeable[F], T any](raw json.RawMessage, build func(element[F]) T) ([]T, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	items, err := splitCollection(ResourceSearch, raw)
	if err != nil {
		return nil, err
	}
	elements, err := decodeElements[F](ResourceSearch, items)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(elements))
	for _, el := range elements {
		out = append(out, build(el))
	}
	return out, nil
}
