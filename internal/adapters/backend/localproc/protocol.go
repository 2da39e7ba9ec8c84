package localproc

import (
	"encoding/json"
	"errors"
	"fmt"
)

type wireRequest struct {
	CorrelationID string `json:"correlationId"`
	Prompt        string `json:"prompt"`
}

type wireResponse struct {
	CorrelationID string  `json:"correlationId"`
	Text          *string `json:"text,omitempty"`
	Error         *string `json:"error,omitempty"`
}

func encodeRequest(id, prompt string) ([]byte, error) {
	data, err := json.Marshal(wireRequest{CorrelationID: id, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("encode worker request: %w", err)
	}
	return append(data, '\n'), nil
}

func decodeResponse(line []byte) (wireResponse, error) {
	var resp wireResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return wireResponse{}, fmt.Errorf("decode worker response: %w", err)
	}
	if resp.CorrelationID == "" {
		return wireResponse{}, errors.New("worker response has no correlationId")
	}
	if resp.Text == nil && resp.Error == nil {
		return wireResponse{}, fmt.Errorf("worker response %s has neither text nor error", resp.CorrelationID)
	}
	return resp, nil
}
