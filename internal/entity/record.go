package entity

import (
	"github.com/joseph-ayodele/inspection-extractor/constants"
)

// InspectionRecord is the flat, typed result of extracting one inspection report.
// Every field has an explicit empty value; use NewInspectionRecord to get the defaults.
type InspectionRecord struct {
	RF              string `json:"rf"`
	PrincipalRF     string `json:"rf_principal"`
	Status          string `json:"situacao"`
	Inspector       string `json:"fiscal"`
	InspectorName   string `json:"fiscal_nome_completo"`
	Supervisor      string `json:"supervisao"`
	SupervisionTag  string `json:"supervisao_sigla"`
	ReportDate      Date   `json:"data"`
	ARTDate         Date   `json:"data_art"`
	TriggeringEvent string `json:"fato_gerador"`
	Protocol        string `json:"protocolo"`
	VisitType       string `json:"tipo_visita"`

	Latitude    string `json:"endereco_latitude"`
	Longitude   string `json:"endereco_longitude"`
	Address     string `json:"endereco_endereco"`
	Description string `json:"endereco_descritivo"`

	Contractor         string `json:"identificacao_contratante"`
	Activity           string `json:"atividade_desenvolvida"`
	ContractedParties  string `json:"identificacao_contratados"`
	Citation           string `json:"autuacao"`
	RequestedDocuments string `json:"documentos_solicitados"`
	OfficeLetter       bool   `json:"oficio"`
	ReceivedDocuments  string `json:"documentos_recebidos"`
	OfficeReply        bool   `json:"resposta_oficio"`

	PriorReportDate   Date   `json:"data_relatorio_anterior"`
	ComplementaryInfo string `json:"informacoes_complementares"`

	Photos          string                   `json:"fotos"`
	Actions         int                      `json:"acoes"`
	Regularization  constants.Regularization `json:"regularizacao"`
	Filename        string                   `json:"nome_arquivo"`
	PhotosExtracted int                      `json:"fotos_extraidas"`

	// AutuacaoCount is the per-report citation aggregate. It is kept out of the
	// public view and only read by the summary report and the store.
	AutuacaoCount int `json:"-"`

	Images []ExtractedImage `json:"-"`
}

// NewInspectionRecord returns a record with every field at its default.
func NewInspectionRecord(filename string) *InspectionRecord {
	return &InspectionRecord{
		SupervisionTag: constants.DefaultSupervisionTag,
		Regularization: constants.RegularizationNo,
		Filename:       filename,
	}
}

// Column is one exported column of the public record view.
type Column struct {
	Header string
	Value  func(r *InspectionRecord) any
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// FlagValue renders a presence flag as 0/1.
func FlagValue(b bool) int { return flag(b) }

var publicColumns = []Column{
	{"RF", func(r *InspectionRecord) any { return r.RF }},
	{"RF Principal", func(r *InspectionRecord) any { return r.PrincipalRF }},
	{"Situação", func(r *InspectionRecord) any { return r.Status }},
	{"Fiscal", func(r *InspectionRecord) any { return r.Inspector }},
	{"Fiscal Nome Completo", func(r *InspectionRecord) any { return r.InspectorName }},
	{"Supervisão", func(r *InspectionRecord) any { return r.Supervisor }},
	{"Supervisão Sigla", func(r *InspectionRecord) any { return r.SupervisionTag }},
	{"Data", func(r *InspectionRecord) any { return r.ReportDate.String() }},
	{"Data ART", func(r *InspectionRecord) any { return r.ARTDate.String() }},
	{"Regularização", func(r *InspectionRecord) any { return string(r.Regularization) }},
	{"Fato Gerador", func(r *InspectionRecord) any { return r.TriggeringEvent }},
	{"Protocolo", func(r *InspectionRecord) any { return r.Protocol }},
	{"Tipo Visita", func(r *InspectionRecord) any { return r.VisitType }},
	{"Endereço Empreendimento - Latitude", func(r *InspectionRecord) any { return r.Latitude }},
	{"Endereço Empreendimento - Longitude", func(r *InspectionRecord) any { return r.Longitude }},
	{"Endereço Empreendimento - Endereço", func(r *InspectionRecord) any { return r.Address }},
	{"Endereço Empreendimento - Descriptivo", func(r *InspectionRecord) any { return r.Description }},
	{"Identificação do Contratante", func(r *InspectionRecord) any { return r.Contractor }},
	{"Atividade Desenvolvida", func(r *InspectionRecord) any { return r.Activity }},
	{"Identificação dos Contratados/Responsáveis", func(r *InspectionRecord) any { return r.ContractedParties }},
	{"Autuação", func(r *InspectionRecord) any { return r.Citation }},
	{"Documentos Solicitados/Expedidos", func(r *InspectionRecord) any { return r.RequestedDocuments }},
	{"Ofício", func(r *InspectionRecord) any { return flag(r.OfficeLetter) }},
	{"Documentos Recebidos", func(r *InspectionRecord) any { return r.ReceivedDocuments }},
	{"Resposta Ofício", func(r *InspectionRecord) any { return flag(r.OfficeReply) }},
	{"Outras Informações - Data Relatório Anterior", func(r *InspectionRecord) any { return r.PriorReportDate.String() }},
	{"Outras Informações - Informações Complementares", func(r *InspectionRecord) any { return r.ComplementaryInfo }},
	{"Fotos", func(r *InspectionRecord) any { return r.Photos }},
	{"Ações", func(r *InspectionRecord) any { return r.Actions }},
	{"Nome Arquivo", func(r *InspectionRecord) any { return r.Filename }},
	{"Fotos Extraídas", func(r *InspectionRecord) any { return r.PhotosExtracted }},
}

// PublicColumns returns the flattened public view, in export order.
// The private citation aggregate is not part of it.
func PublicColumns() []Column {
	out := make([]Column, len(publicColumns))
	copy(out, publicColumns)
	return out
}
