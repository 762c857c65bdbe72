// seed_produtores gera um script SQL para popular a tabela de produtores a
// partir do CSV exportado do cadastro legado (ISO-8859-1, separador ';').
//
// Colunas esperadas: nome;cpf_cnpj;uf;regime
//
// Uso: go run ./cmd/seed_produtores [caminho/produtores.csv]
// Por padrão busca produtores.csv no diretório atual.
// Escreve: internal/infrastructure/postgres/migrations/010_seed_producers.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ufCodes código IBGE de cada unidade federativa (primeiros 2 dígitos da
// chave de acesso).
var ufCodes = map[string]string{
	"RO": "11", "AC": "12", "AM": "13", "RR": "14", "PA": "15", "AP": "16",
	"TO": "17", "MA": "21", "PI": "22", "CE": "23", "RN": "24", "PB": "25",
	"PE": "26", "AL": "27", "SE": "28", "BA": "29", "MG": "31", "ES": "32",
	"RJ": "33", "SP": "35", "PR": "41", "SC": "42", "RS": "43", "MS": "50",
	"MT": "51", "GO": "52", "DF": "53",
}

var validRegimes = map[string]bool{
	"simples":         true,
	"lucro_presumido": true,
	"lucro_real":      true,
	"produtor_pf":     true,
}

type producerRow struct {
	name   string
	taxID  string
	uf     string
	ufCode string
	regime string
}

func main() {
	csvPath := "produtores.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// O cadastro legado exporta em ISO-8859-1; converter antes de parsear.
	reader := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = ';'
	reader.FieldsPerRecord = 4

	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ler CSV: %v\n", err)
		os.Exit(1)
	}

	var rows []producerRow
	var skipped int
	for i, rec := range records {
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "nome") {
			continue // cabeçalho
		}
		row, ok := parseRow(rec)
		if !ok {
			fmt.Fprintf(os.Stderr, "linha %d ignorada: %v\n", i+1, rec)
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "nenhum produtor válido no CSV")
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "010_seed_producers.sql")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Criar diretório: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Criar arquivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Produtores rurais (cadastro legado)\n")
	out.WriteString("-- Gerado a partir de produtores.csv\n\n")
	out.WriteString("INSERT INTO producers (id, name, tax_id, uf, uf_code, regime) VALUES\n")
	for i, r := range rows {
		sep := ","
		if i == len(rows)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  (gen_random_uuid(), '%s', '%s', '%s', '%s', '%s')%s\n",
			escapeSQL(r.name), r.taxID, r.uf, r.ufCode, r.regime, sep)
	}
	out.WriteString("ON CONFLICT (tax_id) DO UPDATE SET name = EXCLUDED.name, uf = EXCLUDED.uf, uf_code = EXCLUDED.uf_code, regime = EXCLUDED.regime;\n")

	fmt.Printf("Gerado %s: %d produtores (%d linhas ignoradas)\n", outPath, len(rows), skipped)
}

// parseRow valida e normaliza uma linha do CSV: CPF/CNPJ só dígitos, UF com
// código IBGE conhecido, regime dentro do conjunto fechado.
func parseRow(rec []string) (producerRow, bool) {
	name := strings.TrimSpace(rec[0])
	taxID := onlyDigits(rec[1])
	uf := strings.ToUpper(strings.TrimSpace(rec[2]))
	regime := strings.ToLower(strings.TrimSpace(rec[3]))

	code, okUF := ufCodes[uf]
	if name == "" || !okUF || !validRegimes[regime] {
		return producerRow{}, false
	}
	if len(taxID) != 11 && len(taxID) != 14 {
		return producerRow{}, false
	}
	return producerRow{name: name, taxID: taxID, uf: uf, ufCode: code, regime: regime}, true
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
