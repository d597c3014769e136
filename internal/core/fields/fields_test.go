package fields

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

const header = `RELATÓRIO DE FISCALIZAÇÃO
Número : 2023/000123
RF Principal : 998
Situação : Concluído
Agente de Fiscalização : 4521 - MARIA APARECIDA SOUZA
Responsável : SBXD - Supervisão Barra
Data Relatório : 12/06/2023 10:42
Fato Gerador : DENÚNCIA PROTOCOLO/ 20231234
Protocolo : NÃO INFORMADO
Tipo Visita : Rotina
`

func TestLabeled(t *testing.T) {
	got := Labeled(header)
	want := Meta{
		Number:          "2023/000123",
		Status:          "Concluído",
		Agent:           "4521 - MARIA APARECIDA SOUZA",
		Responsible:     "SBXD - Supervisão Barra",
		ReportDate:      "12/06/2023 10:42",
		TriggeringEvent: "DENÚNCIA PROTOCOLO/ 20231234",
		VisitType:       "Rotina",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Labeled mismatch (-want +got):\n%s", diff)
	}
	if got := Labeled(""); got != (Meta{}) {
		t.Errorf("Labeled(\"\") = %+v", got)
	}
}

func TestHeaderFormatters(t *testing.T) {
	if got := ProtocolNumber("DENÚNCIA PROTOCOLO/ 20231234"); got != "20231234" {
		t.Errorf("ProtocolNumber = %q", got)
	}
	if got := ProtocolNumber("processo 77"); got != "77" {
		t.Errorf("ProtocolNumber lower = %q", got)
	}
	if got := ProtocolNumber("Rotina"); got != "" {
		t.Errorf("ProtocolNumber no match = %q", got)
	}
	if got := PrincipalRF(header); got != "998" {
		t.Errorf("PrincipalRF = %q", got)
	}
	if got := Supervisor("SBXD - Supervisão Barra"); got != "SBXD" {
		t.Errorf("Supervisor = %q", got)
	}
	if got := Supervisor(" - SBAB"); got != "SBAB" {
		t.Errorf("Supervisor leading dash = %q", got)
	}
	if got := ReportDate("12/06/2023 10:42"); got != entity.NewDate(2023, time.June, 12) {
		t.Errorf("ReportDate = %v", got)
	}
	if got := ReportDate("31/02/2023"); !got.IsZero() {
		t.Errorf("impossible date accepted: %v", got)
	}
}

func TestInspector(t *testing.T) {
	tests := []struct {
		in, short, full string
	}{
		{"4521 - MARIA APARECIDA SOUZA", "4521 Maria", "MARIA APARECIDA SOUZA"},
		{"77-joão silva", "77 João", "joão silva"},
		{"Fiscal sem matrícula", "Fiscal sem matrícula", "Fiscal sem matrícula"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := InspectorShort(tt.in); got != tt.short {
				t.Errorf("InspectorShort = %q, want %q", got, tt.short)
			}
			if got := InspectorFullName(tt.in); got != tt.full {
				t.Errorf("InspectorFullName = %q, want %q", got, tt.full)
			}
		})
	}
}

const section04Doc = `04 - Identificação dos Contratados, Responsáveis Técnicos e/ou Fiscalizados
Contratado : Construtora Alfa
Ramo Atividade : Engenharia Civil
Motivo Ação : AUTUACAO 554433 por falta de ART
Ramo Atividade : Engenharia Elétrica
Motivo Ação : Notificação e AUTUAÇÃO
Ramo Atividade : Agronomia
05 - Documentos Solicitados / Expedidos
Ramo Atividade : fora da seção
Motivo Ação : AUTUACAO fora da seção
`

func TestSection04Counts(t *testing.T) {
	if got := CountActivityBranches(section04Doc); got != 3 {
		t.Errorf("CountActivityBranches = %d, want 3", got)
	}
	if got := CountCitations(section04Doc); got != 2 {
		t.Errorf("CountCitations = %d, want 2", got)
	}
	if got := CountActivityBranches("Ramo Atividade : x"); got != 0 {
		t.Errorf("count without section 04 = %d", got)
	}
	if got := CitationNumber(section04Doc); got != "554433" {
		t.Errorf("CitationNumber = %q", got)
	}
}

func TestMotivoBlocksStopAtBlankLine(t *testing.T) {
	got := MotivoBlocks("Motivo Ação : AUTUAÇÃO\n\nAUTUAÇÃO solta\nMotivo Acao: nada")
	want := []string{" AUTUAÇÃO", " nada"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MotivoBlocks (-want +got):\n%s", diff)
	}
}

func TestOfficeFlags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"accented", "Ofício nº 12/2023", true},
		{"abbrev dot", "OF. 33", true},
		{"ofc", "OFC 10", true},
		{"digit", "of-99 entregue", true},
		{"plain", "Cópia do alvará", false},
		{"absent", "SEM INFORMAÇÃO", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OfficeLetter(tt.in); got != tt.want {
				t.Errorf("OfficeLetter(%q) = %v", tt.in, got)
			}
		})
	}

	requested := RequestedDocuments("Ofício 12/2023\nFonte Informação : Ofício antigo")
	if requested != "Ofício 12/2023" {
		t.Errorf("RequestedDocuments = %q", requested)
	}
	if OfficeLetter(RequestedDocuments("Alvará Fonte Informação : Ofício")) {
		t.Error("office letter after Fonte Informação must be ignored")
	}

	if !OfficeReply("Recebida COPIA ART do responsável") {
		t.Error("OfficeReply should match COPIA ART")
	}
	if OfficeReply("Cópia do contrato") {
		t.Error("OfficeReply false positive")
	}
}

func TestARTDate(t *testing.T) {
	tests := []struct {
		name, in string
		want     entity.Date
		strategy string
	}{
		{"dash", "OUTROS - 10/05/2023", entity.NewDate(2023, time.May, 10), "outros_dash"},
		{"loose", "Outros (ART n. ): 01/02/2022", entity.NewDate(2022, time.February, 1), "outros_loose"},
		{"invalid", "OUTROS - 31/13/2023", entity.Date{}, "outros_dash"},
		{"none", "Cópia ART", entity.Date{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ARTDate(tt.in); got != tt.want {
				t.Errorf("ARTDate = %v, want %v", got, tt.want)
			}
			_, name, _ := FirstMatch(ARTDateStrategies, tt.in)
			if name != tt.strategy {
				t.Errorf("strategy = %q, want %q", name, tt.strategy)
			}
		})
	}
}

func TestPriorReportDate(t *testing.T) {
	tests := []struct {
		in   string
		want entity.Date
	}{
		{"Data do Relatório Anterior : 05/06/23", entity.NewDate(2023, time.June, 5)},
		{"Data do Relatorio Anterior: 05/06/2023", entity.NewDate(2023, time.June, 5)},
		{"Data do Relatório Anterior : 30/02/23", entity.Date{}},
		{"sem data", entity.Date{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := PriorReportDate(tt.in)
			if got != tt.want {
				t.Errorf("PriorReportDate = %v, want %v", got, tt.want)
			}
		})
	}
	if s := PriorReportDate("Data do Relatório Anterior : 05/06/23").String(); s != "05/06/2023" {
		t.Errorf("rendered = %q", s)
	}
}

func TestComplementaryInfo(t *testing.T) {
	in := "Informações Complementares : Obs (Obra   embargada\n parcialmente) fim (outro)"
	if got := ComplementaryInfo(in); got != "Obra embargada parcialmente" {
		t.Errorf("ComplementaryInfo = %q", got)
	}
	if got := ComplementaryInfo("Informações Complementares : nada"); got != "" {
		t.Errorf("without parenthesis = %q", got)
	}
}

func TestParseAddress(t *testing.T) {
	in := "Rua das Flores, 100 - Centro\nLatitude : -22,9068 Longitude : -43.1729\nDescriptivo: Próximo à praça"
	want := Address{
		Street:      "Rua das Flores, 100 - Centro",
		Latitude:    "-22,9068",
		Longitude:   "-43.1729",
		Description: "Próximo à praça",
	}
	if diff := cmp.Diff(want, ParseAddress(in)); diff != "" {
		t.Errorf("ParseAddress (-want +got):\n%s", diff)
	}
	if got := ParseAddress("SEM"); got != (Address{}) {
		t.Errorf("absent section = %+v", got)
	}
}

func TestFirstMatchOrder(t *testing.T) {
	strategies := []Strategy{
		{Name: "a", Pattern: regexp.MustCompile(`x(\d)`)},
		{Name: "b", Pattern: regexp.MustCompile(`(\d)`)},
	}
	v, name, ok := FirstMatch(strategies, "7 x3")
	if !ok || v != "3" || name != "a" {
		t.Errorf("FirstMatch = %q %q %v", v, name, ok)
	}
	if _, _, ok := FirstMatch(strategies, "none"); ok {
		t.Error("FirstMatch matched nothing")
	}
}
