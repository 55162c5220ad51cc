package handler

import (
	"personnummer/internal/personnummer/service"
)

// ValidateResponse is the verdict for one identifier. Invalid identifiers
// are reported here with status 200, never as transport errors.
type ValidateResponse struct {
	Valid   bool     `json:"valid"`
	Reason  string   `json:"reason,omitempty"`
	Message string   `json:"message,omitempty"`
	Details *Details `json:"details,omitempty"`
}

// Details describes a valid identifier.
type Details struct {
	Normalized   string `json:"normalized"`
	Long         string `json:"long"`
	BirthDate    string `json:"birth_date"`
	Age          int    `json:"age"`
	Coordination bool   `json:"coordination"`
}

type BatchValidateResponse struct {
	Results      []ValidateResponse `json:"results"`
	ValidCount   int                `json:"valid_count"`
	InvalidCount int                `json:"invalid_count"`
}

// FromResult converts a service result to its response shape.
func FromResult(r service.Result) ValidateResponse {
	if !r.Valid {
		return ValidateResponse{
			Reason:  string(r.Reason),
			Message: r.Message,
		}
	}
	p := r.Personnummer
	return ValidateResponse{
		Valid: true,
		Details: &Details{
			Normalized:   p.String(),
			Long:         p.Long(),
			BirthDate:    p.BirthDate().Format(ReferenceDateLayout),
			Age:          p.Age(),
			Coordination: p.Coordination(),
		},
	}
}

func FromResults(results []service.Result) BatchValidateResponse {
	resp := BatchValidateResponse{Results: make([]ValidateResponse, len(results))}
	for i, r := range results {
		resp.Results[i] = FromResult(r)
		if r.Valid {
			resp.ValidCount++
		} else {
			resp.InvalidCount++
		}
	}
	return resp
}
