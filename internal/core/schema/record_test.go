package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/joseph-ayodele/inspection-extractor/constants"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

func TestValidateDefaults(t *testing.T) {
	rec := entity.NewInspectionRecord("a.pdf")
	rec.Photos = "Nenhuma seção de fotos encontrada e nenhuma imagem extraída"
	if err := Validate(rec); err != nil {
		t.Fatalf("default record rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *entity.InspectionRecord)
	}{
		{"protocol with letters", func(r *entity.InspectionRecord) { r.Protocol = "12A" }},
		{"unknown regularization", func(r *entity.InspectionRecord) { r.Regularization = constants.Regularization("TALVEZ") }},
		{"negative actions", func(r *entity.InspectionRecord) { r.Actions = -1 }},
		{"empty filename", func(r *entity.InspectionRecord) { r.Filename = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := entity.NewInspectionRecord("a.pdf")
			rec.Photos = "x"
			rec.ReportDate = entity.NewDate(2023, time.June, 1)
			tt.mutate(rec)
			err := Validate(rec)
			if err == nil || !strings.Contains(err.Error(), "does not match schema") {
				t.Fatalf("want schema error, got %v", err)
			}
		})
	}
}
