package sections

import (
	"testing"

	"github.com/joseph-ayodele/inspection-extractor/constants"
)

const sample = `Relatório de Fiscalização
Número : 12345
01 - Endereço Empreendimento
Rua das Flores, 100
Latitude : -3,7319 Longitude : -38,5267
02 - Identificação do Contratante do Empreendimento
SEM INFORMAÇÃO
03 - Atividade Desenvolvida
Construção de edifício residencial
04 - Identificação dos Contratados, Responsáveis Técnicos e/ou Fiscalizados
Ramo Atividade : Engenharia Civil
Motivo Ação : AUTUAÇÃO 998877
05 - Documentos Solicitados / Expedidos
Ofício 321/2023 Fonte Informação : Fiscal
06 - Documentos Recebidos
Cópia ART OUTROS - 10/05/2023
07 - Outras Informações
Data do Relatório Anterior : 05/03/2023
08 - Fotos
`

func TestSplit(t *testing.T) {
	got := Split(sample)

	tests := []struct {
		label   constants.SectionLabel
		present bool
		content string
	}{
		{constants.SectionAddress, true, "Rua das Flores, 100\nLatitude : -3,7319 Longitude : -38,5267"},
		{constants.SectionContractor, false, ""},
		{constants.SectionActivity, true, "Construção de edifício residencial"},
		{constants.SectionContractedParties, true, "Ramo Atividade : Engenharia Civil\nMotivo Ação : AUTUAÇÃO 998877"},
		{constants.SectionRequestedDocuments, true, "Ofício 321/2023 Fonte Informação : Fiscal"},
		{constants.SectionReceivedDocuments, true, "Cópia ART OUTROS - 10/05/2023"},
		{constants.SectionOtherInformation, true, "Data do Relatório Anterior : 05/03/2023"},
		{constants.SectionPhotos, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.label.Number(), func(t *testing.T) {
			sec := got.Get(tt.label)
			if sec.Present != tt.present {
				t.Errorf("Present = %v, want %v", sec.Present, tt.present)
			}
			if sec.Content != tt.content {
				t.Errorf("Content = %q, want %q", sec.Content, tt.content)
			}
			if got.Content(tt.label) != tt.content {
				t.Errorf("Content() disagrees with Get()")
			}
		})
	}
	if n := got.PresentCount(); n != 6 {
		t.Errorf("PresentCount = %d, want 6", n)
	}
}

func TestSplitIsIdempotent(t *testing.T) {
	first := Split(sample)
	for _, label := range constants.Sections() {
		sec := first.Get(label)
		if !sec.Present {
			continue
		}
		again := Split(string(label) + "\n" + sec.Content).Get(label)
		if again.Content != sec.Content {
			t.Errorf("%s: re-split = %q, want %q", label.Number(), again.Content, sec.Content)
		}
	}
}

func TestSplitTitleOnlyFallback(t *testing.T) {
	doc := "Atividade   Desenvolvida\nReforma de fachada\n04 - Identificação"
	sec := Split(doc).Get(constants.SectionActivity)
	if !sec.Present || sec.Content != "Reforma de fachada" {
		t.Fatalf("got %+v", sec)
	}
	if sec.Strategy != "title_only" {
		t.Errorf("Strategy = %q", sec.Strategy)
	}
}

func TestSplitTitleOnlyFallbackWithNumber(t *testing.T) {
	doc := "06- Documentos   Recebidos:\nCópia ART\n07 - Outras Informações\nnada"
	sec := Split(doc).Get(constants.SectionReceivedDocuments)
	if !sec.Present || sec.Content != "Cópia ART" || sec.Strategy != "title_only" {
		t.Fatalf("got %+v", sec)
	}
}

func TestSplitIgnoresTitleInsideSentence(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "mid line",
			doc: "05 - Documentos Solicitados / Expedidos\n" +
				"Solicitada Cópia ART; Documentos Recebidos na sede serão analisados\n" +
				"OUTROS - 10/05/2024\n" +
				"07 - Outras Informações\n" +
				"Data do Relatório Anterior : 01/05/24",
		},
		{
			name: "line start followed by prose",
			doc:  "05 - Documentos Solicitados / Expedidos\nDocumentos Recebidos na sede\nOUTROS - 10/05/2024",
		},
		{
			name: "another section number",
			doc:  "05 - Documentos Recebidos\nOUTROS - 10/05/2024",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := Split(tt.doc).Get(constants.SectionReceivedDocuments)
			if sec.Present || sec.Content != "" || sec.Strategy != "" {
				t.Errorf("section 06 built from a passing mention: %+v", sec)
			}
		})
	}
}

func TestSplitEmptyDocument(t *testing.T) {
	got := Split("")
	for _, label := range constants.Sections() {
		if got.Get(label).Present {
			t.Errorf("%s present in empty document", label)
		}
	}
	var zero Sections
	if zero.Content(constants.SectionAddress) != "" {
		t.Error("zero Sections should have no content")
	}
}

func TestSection04Span(t *testing.T) {
	span, ok := Section04Span(sample)
	if !ok {
		t.Fatal("span not found")
	}
	want := "\nRamo Atividade : Engenharia Civil\nMotivo Ação : AUTUAÇÃO 998877\n"
	if span != want {
		t.Errorf("span = %q, want %q", span, want)
	}
	if _, ok := Section04Span("nothing here"); ok {
		t.Error("span found without heading")
	}
}
