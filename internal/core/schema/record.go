// Package schema validates assembled records against a JSON schema.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/inspection-extractor/constants"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

// BuildRecordJSONSchema returns the schema of the public record view as a generic map.
func BuildRecordJSONSchema() map[string]any {
	str := func() map[string]any { return map[string]any{"type": "string"} }
	props := map[string]any{
		"rf":                   str(),
		"rf_principal":         digitsProp(),
		"situacao":             str(),
		"fiscal":               str(),
		"fiscal_nome_completo": str(),
		"supervisao":           str(),
		"supervisao_sigla":     map[string]any{"type": "string", "minLength": 1},
		"data":                 dateProp(),
		"data_art":             dateProp(),
		"fato_gerador":         str(),
		"protocolo":            digitsProp(),
		"tipo_visita":          str(),
		"endereco_latitude":    coordProp(),
		"endereco_longitude":   coordProp(),
		"endereco_endereco":    str(),
		"endereco_descritivo":  str(),

		"identificacao_contratante": str(),
		"atividade_desenvolvida":    str(),
		"identificacao_contratados": str(),
		"autuacao":                  digitsProp(),
		"documentos_solicitados":    str(),
		"oficio":                    map[string]any{"type": "boolean"},
		"documentos_recebidos":      str(),
		"resposta_oficio":           map[string]any{"type": "boolean"},

		"data_relatorio_anterior":    dateProp(),
		"informacoes_complementares": str(),

		"fotos":           map[string]any{"type": "string", "minLength": 1},
		"acoes":           countProp(),
		"regularizacao":   map[string]any{"type": "string", "enum": []string{string(constants.RegularizationYes), string(constants.RegularizationNo)}},
		"nome_arquivo":    map[string]any{"type": "string", "minLength": 1},
		"fotos_extraidas": countProp(),
	}
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func dateProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^(\d{2}/\d{2}/\d{4})?$`}
}

func digitsProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^\d*$`}
}

func coordProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^[-\d,.]*$`}
}

func countProp() map[string]any {
	return map[string]any{"type": "integer", "minimum": 0}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func recordSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(BuildRecordJSONSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("record.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Validate checks the JSON rendering of rec against the record schema.
func Validate(rec *entity.InspectionRecord) error {
	s, err := recordSchema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
