package credstore

import "encoding/json"

// Command names accepted by Invoke
const (
	CmdStoreToken  = "store_token"
	CmdGetToken    = "get_token"
	CmdDeleteToken = "delete_token"
)

// Request is one RPC-style call from a host application
type Request struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Command string          `json:"cmd"`
	Key     *string         `json:"key"`
	Value   *string         `json:"value,omitempty"`
}

// Response pairs an Outcome with the request ID it answers.
// Command and Key echo the request for diagnostics and are not serialized.
type Response struct {
	ID json.RawMessage `json:"id"`
	Outcome

	Command string `json:"-"`
	Key     string `json:"-"`
}

// MarshalJSON writes a null id when the request carried none
func (r Response) MarshalJSON() ([]byte, error) {
	id := r.ID
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return json.Marshal(struct {
		ID      json.RawMessage `json:"id"`
		Success bool            `json:"success"`
		Error   *string         `json:"error"`
		Value   *string         `json:"value"`
	}{id, r.Success, r.Error, r.Value})
}

// Invoke dispatches a request to Store, Get or Delete
func (s *CredentialStore) Invoke(req Request) Outcome {
	switch req.Command {
	case CmdStoreToken, CmdGetToken, CmdDeleteToken:
	default:
		return failed(KindInvalidRequest, "unknown command: %q", req.Command)
	}

	if req.Key == nil {
		return failed(KindInvalidRequest, "%s: missing key", req.Command)
	}

	switch req.Command {
	case CmdStoreToken:
		if req.Value == nil {
			return failed(KindInvalidRequest, "%s: missing value", req.Command)
		}
		return s.Store(*req.Key, *req.Value)
	case CmdGetToken:
		return s.Get(*req.Key)
	default:
		return s.Delete(*req.Key)
	}
}

// Handle decodes one JSON request line and returns the response for it.
// Malformed input yields an invalid-request response with a null id.
func (s *CredentialStore) Handle(line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Response{Outcome: failed(KindInvalidRequest, "malformed request: %v", err)}
	}
	resp := Response{ID: req.ID, Outcome: s.Invoke(req), Command: req.Command}
	if req.Key != nil {
		resp.Key = *req.Key
	}
	return resp
}
