package constants

import "strings"

// SectionLabel is the canonical header of a numbered report section.
type SectionLabel string

const (
	SectionAddress            SectionLabel = "01 - Endereço Empreendimento"
	SectionContractor         SectionLabel = "02 - Identificação do Contratante do Empreendimento"
	SectionActivity           SectionLabel = "03 - Atividade Desenvolvida"
	SectionContractedParties  SectionLabel = "04 - Identificação dos Contratados, Responsáveis Técnicos e/ou Fiscalizados"
	SectionRequestedDocuments SectionLabel = "05 - Documentos Solicitados / Expedidos"
	SectionReceivedDocuments  SectionLabel = "06 - Documentos Recebidos"
	SectionOtherInformation   SectionLabel = "07 - Outras Informações"
	SectionPhotos             SectionLabel = "08 - Fotos"
)

var allSections = []SectionLabel{
	SectionAddress,
	SectionContractor,
	SectionActivity,
	SectionContractedParties,
	SectionRequestedDocuments,
	SectionReceivedDocuments,
	SectionOtherInformation,
	SectionPhotos,
}

// Sections returns the catalog in document order.
func Sections() []SectionLabel {
	out := make([]SectionLabel, len(allSections))
	copy(out, allSections)
	return out
}

// Number returns the two-digit prefix ("04").
func (l SectionLabel) Number() string {
	n, _, _ := strings.Cut(string(l), " - ")
	return n
}

// Title returns the label without its numeric prefix.
func (l SectionLabel) Title() string {
	_, t, ok := strings.Cut(string(l), " - ")
	if !ok {
		return string(l)
	}
	return t
}
