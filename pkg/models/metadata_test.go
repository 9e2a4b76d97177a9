package models

import "testing"

func validMetadata() *Metadata {
	return &Metadata{
		HasReproductionSteps: true,
		HasStacktrace:        true,
		IsCrash:              true,
		Environment:          "production",
		Summary:              "Application crashes on startup",
		Difficulty:           "hard",
		RequiredSkills:       []string{"go", "systems"},
		PrimaryArea:          "backend",
		ExtractionConfidence: 0.95,
	}
}

func TestMetadata_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Metadata)
		wantErr bool
	}{
		{"valid", func(m *Metadata) {}, false},
		{"confidence too high", func(m *Metadata) { m.ExtractionConfidence = 1.5 }, true},
		{"confidence negative", func(m *Metadata) { m.ExtractionConfidence = -0.1 }, true},
		{"confidence lower bound", func(m *Metadata) { m.ExtractionConfidence = 0.0 }, false},
		{"confidence upper bound", func(m *Metadata) { m.ExtractionConfidence = 1.0 }, false},
		{"bad difficulty", func(m *Metadata) { m.Difficulty = "trivial" }, true},
		{"bad area", func(m *Metadata) { m.PrimaryArea = "kernel" }, true},
		{"unknown difficulty allowed", func(m *Metadata) { m.Difficulty = "unknown" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMetadata()
			tt.mutate(m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMetadata_Record(t *testing.T) {
	m := validMetadata()
	record := m.Record()

	if record["is_crash"] != true {
		t.Errorf("record is_crash = %v, want true", record["is_crash"])
	}
	if record["difficulty"] != "hard" {
		t.Errorf("record difficulty = %v, want hard", record["difficulty"])
	}
	// Numbers come back as float64 through JSON
	if record["extraction_confidence"] != 0.95 {
		t.Errorf("record extraction_confidence = %v, want 0.95", record["extraction_confidence"])
	}
	// Unset optional string is present as nil
	if v, ok := record["operating_system"]; !ok || v != nil {
		t.Errorf("record operating_system = %v (present=%v), want nil present", v, ok)
	}
}

func TestDuplicateResult_Validate(t *testing.T) {
	num := 42
	state := "open"

	tests := []struct {
		name    string
		result  DuplicateResult
		wantErr bool
	}{
		{"zero confidence", DuplicateResult{Confidence: 0.0, Reasoning: "none"}, false},
		{"match with state", DuplicateResult{DuplicateNumber: &num, MatchedIssueState: &state, Confidence: 0.95, Reasoning: "ok"}, false},
		{"confidence out of range", DuplicateResult{Confidence: 1.1, Reasoning: "bad"}, true},
		{"state without number", DuplicateResult{MatchedIssueState: &state, Confidence: 0.5, Reasoning: "bad"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTriageAction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		action  TriageAction
		wantErr bool
	}{
		{"valid", TriageAction{PriorityScore: 3, Labels: []string{"bug"}, Reasoning: "match"}, false},
		{"priority too low", TriageAction{PriorityScore: 0, Reasoning: "x"}, true},
		{"priority too high", TriageAction{PriorityScore: 6, Reasoning: "x"}, true},
		{"missing reasoning", TriageAction{PriorityScore: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
