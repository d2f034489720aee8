// seed_facilities genera el script SQL para poblar la tabla facilities a partir de la
// exportación CSV del sistema anterior (codificada en Windows-1256).
//
// Uso: go run ./cmd/seed_facilities [ruta/centros.csv] [--utf8]
// Por defecto busca centros.csv en el directorio actual.
// Columnas esperadas: name, code, region, address (la primera fila es el encabezado).
// Escribe: internal/infrastructure/postgres/seeds/facilities.sql
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type facilityRow struct {
	id, name, code, region, address string
}

func main() {
	csvPath := "centros.csv"
	utf8Input := false
	for _, arg := range os.Args[1:] {
		if arg == "--utf8" {
			utf8Input = true
			continue
		}
		csvPath = arg
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var in io.Reader = f
	if !utf8Input {
		in = transform.NewReader(f, charmap.Windows1256.NewDecoder())
	}
	rows, err := readFacilities(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "seeds", "facilities.sql")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d centros\n", outPath, len(rows))
}

// readFacilities lee el CSV; filas sin nombre o código se descartan y los códigos repetidos
// conservan la última fila.
func readFacilities(r io.Reader) ([]facilityRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("archivo vacío")
		}
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"name", "code"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	byCode := make(map[string]facilityRow)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := facilityRow{
			name:    field(rec, "name"),
			code:    strings.ToUpper(field(rec, "code")),
			region:  field(rec, "region"),
			address: field(rec, "address"),
		}
		if row.name == "" || row.code == "" {
			continue
		}
		// ID estable por código: regenerar el script no duplica centros.
		row.id = uuid.NewSHA1(uuid.NameSpaceOID, []byte("facility:"+row.code)).String()
		byCode[row.code] = row
	}

	out := make([]facilityRow, 0, len(byCode))
	for _, row := range byCode {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].code < out[j].code })
	return out, nil
}

func writeSQL(w io.Writer, rows []facilityRow) error {
	var b strings.Builder
	b.WriteString("-- Centros de la red (clínicas y hospitales dentales)\n")
	b.WriteString("-- Generado desde la exportación CSV del sistema anterior\n\n")
	if len(rows) == 0 {
		b.WriteString("-- sin filas válidas\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("INSERT INTO facilities (id, name, code, region, address) VALUES\n")
	for i, r := range rows {
		fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', '%s')", r.id, escapeSQL(r.name), escapeSQL(r.code), escapeSQL(r.region), escapeSQL(r.address))
		if i < len(rows)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString("\n")
		}
	}
	b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, region = EXCLUDED.region,\n")
	b.WriteString("  address = EXCLUDED.address, updated_at = now();\n")
	_, err := io.WriteString(w, b.String())
	return err
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
