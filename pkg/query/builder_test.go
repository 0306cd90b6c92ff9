package query

import (
	"testing"
	"time"

	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestBuild_EmptyPredicates(t *testing.T) {
	q, err := Build(Resources, Predicates{}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "files", q.Table)
	assert.Empty(t, q.Where)
	assert.Equal(t, "files.modified_at DESC, files.id DESC", q.OrderBy)
	assert.Zero(t, q.Limit)
}

func TestBuild_NameIncludeAndExclude(t *testing.T) {
	q, err := Build(Resources, Predicates{Name: "report", ExcludeName: "draft"}, fixedNow)
	require.NoError(t, err)
	require.Len(t, q.Where, 2)

	assert.Contains(t, q.Where[0].SQL, "files.path LIKE ?")
	assert.Contains(t, q.Where[0].SQL, " OR ")
	assert.Equal(t, []any{"%report%", "%report%"}, q.Where[0].Args)

	assert.Contains(t, q.Where[1].SQL, "NOT LIKE")
	assert.Contains(t, q.Where[1].SQL, " AND ")
	assert.Equal(t, []any{"%draft%", "%draft%"}, q.Where[1].Args)
}

func TestBuild_TagsUseMetadataSubquery(t *testing.T) {
	q, err := Build(Resources, Predicates{Tag: "wo", ExcludeTag: "home"}, fixedNow)
	require.NoError(t, err)
	require.Len(t, q.Where, 2)

	assert.Contains(t, q.Where[0].SQL, "files.id IN (SELECT file_id FROM metadata")
	assert.Equal(t, []any{models.TagKey, "%wo%"}, q.Where[0].Args)
	assert.Contains(t, q.Where[1].SQL, "files.id NOT IN (SELECT file_id FROM metadata")
	assert.Equal(t, []any{models.TagKey, "%home%"}, q.Where[1].Args)
}

func TestBuild_InlineTags(t *testing.T) {
	q, err := Build(Apps, Predicates{ExcludeTag: "games"}, fixedNow)
	require.NoError(t, err)
	require.Len(t, q.Where, 1)

	assert.Equal(t, `(apps.tags IS NULL OR apps.tags NOT LIKE ? ESCAPE '\')`, q.Where[0].SQL)
	assert.Equal(t, "apps.nombre ASC, apps.id ASC", q.OrderBy)
}

func TestBuild_Recency(t *testing.T) {
	days := 7
	q, err := Build(Resources, Predicates{Days: &days}, fixedNow)
	require.NoError(t, err)
	require.Len(t, q.Where, 1)

	assert.Equal(t, "files.modified_at >= ?", q.Where[0].SQL)
	assert.Equal(t, []any{fixedNow.AddDate(0, 0, -7)}, q.Where[0].Args)
}

func TestBuild_Extensions(t *testing.T) {
	tests := []struct {
		name string
		p    Predicates
		sql  []string
		args [][]any
	}{
		{
			name: "concrete only",
			p:    Predicates{Extensions: []string{"PDF", ".docx"}},
			sql:  []string{"lower(files.extension) IN ?"},
			args: [][]any{{[]string{".pdf", ".docx"}}},
		},
		{
			name: "web only",
			p:    Predicates{Extensions: []string{"web"}},
			sql:  []string{"files.resource_type = ?"},
			args: [][]any{{models.ResourceWeb}},
		},
		{
			name: "web mixed with concrete",
			p:    Predicates{Extensions: []string{"pdf", "link"}},
			sql:  []string{"(files.resource_type = ? OR lower(files.extension) IN ?)"},
			args: [][]any{{models.ResourceWeb, []string{".pdf"}}},
		},
		{
			name: "exclusions",
			p:    Predicates{ExcludeExtensions: []string{"url", "tmp"}},
			sql: []string{
				"files.resource_type <> ?",
				"(files.extension IS NULL OR lower(files.extension) NOT IN ?)",
			},
			args: [][]any{{models.ResourceWeb}, {[]string{".tmp"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Build(Resources, tt.p, fixedNow)
			require.NoError(t, err)
			require.Len(t, q.Where, len(tt.sql))

			for i := range tt.sql {
				assert.Equal(t, tt.sql[i], q.Where[i].SQL)
				assert.Equal(t, tt.args[i], q.Where[i].Args)
			}
		})
	}
}

func TestBuild_Info(t *testing.T) {
	q, err := Build(Resources, Predicates{Info: InfoAbsent}, fixedNow)
	require.NoError(t, err)
	require.Len(t, q.Where, 1)
	assert.Contains(t, q.Where[0].SQL, "NOT (")

	q, err = Build(Resources, Predicates{Info: InfoPresent}, fixedNow)
	require.NoError(t, err)
	require.Len(t, q.Where, 1)
	assert.NotContains(t, q.Where[0].SQL, "NOT")
}

func TestBuild_FamiliesAreAnded(t *testing.T) {
	days := 30
	q, err := Build(Resources, Predicates{
		Name:       "a",
		Tag:        "b",
		Days:       &days,
		Extensions: []string{"pdf"},
		Info:       InfoPresent,
		Order:      OrderName,
		Limit:      20,
	}, fixedNow)
	require.NoError(t, err)

	assert.Len(t, q.Where, 5)
	assert.Equal(t, "files.filename ASC, files.id ASC", q.OrderBy)
	assert.Equal(t, 20, q.Limit)
}

func TestBuild_UnsupportedPredicates(t *testing.T) {
	days := 1
	tests := []struct {
		name   string
		target Target
		p      Predicates
	}{
		{"recency on apps", Apps, Predicates{Days: &days}},
		{"extension on accounts", WebAccounts, Predicates{Extensions: []string{"pdf"}}},
		{"info on apps", Apps, Predicates{Info: InfoPresent}},
		{"unknown order", Resources, Predicates{Order: "size"}},
		{"platform on accounts", WebAccounts, Predicates{Platform: "Linux"}},
		{"status on pages", Pages, Predicates{Status: "Activa"}},
		{"category on files", Resources, Predicates{Category: "Work"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.target, tt.p, fixedNow)
			assert.ErrorIs(t, err, ErrUnsupportedPredicate)
		})
	}
}

func TestBuild_Attributes(t *testing.T) {
	q, err := Build(Apps, Predicates{Platform: "linux", Category: "Productividad", Status: "Instalada"}, fixedNow)
	require.NoError(t, err)
	require.Len(t, q.Where, 3)
	assert.Equal(t, `apps.plataforma LIKE ? ESCAPE '\'`, q.Where[0].SQL)
	assert.Equal(t, []any{"%linux%"}, q.Where[0].Args)
	assert.Equal(t, `apps.categoria LIKE ? ESCAPE '\'`, q.Where[1].SQL)
	assert.Equal(t, `apps.estado LIKE ? ESCAPE '\'`, q.Where[2].SQL)

	q, err = Build(WebAccounts, Predicates{Category: "Social", Status: "Activa"}, fixedNow)
	require.NoError(t, err)
	require.Len(t, q.Where, 2)
	assert.Contains(t, q.Where[0].SQL, "cuentas_web.categoria")
	assert.Contains(t, q.Where[1].SQL, "cuentas_web.estado")

	q, err = Build(Pages, Predicates{Name: "docs", Category: "Referencia"}, fixedNow)
	require.NoError(t, err)
	require.Len(t, q.Where, 2)
	assert.Equal(t, "paginas_sin_registro", q.Table)
	assert.Contains(t, q.Where[1].SQL, "paginas_sin_registro.categoria")
	assert.Equal(t, "paginas_sin_registro.nombre ASC, paginas_sin_registro.id ASC", q.OrderBy)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}

func TestParseExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf", ".docx", WebSentinel}, ParseExtensions(" pdf, .DOCX ,web,,pdf, link"))
	assert.Nil(t, ParseExtensions(" , . "))
}

func TestParseDays(t *testing.T) {
	require.NotNil(t, ParseDays("5"))
	assert.Equal(t, 5, *ParseDays(" 5 "))
	assert.Nil(t, ParseDays(""))
	assert.Nil(t, ParseDays("-1"))
	assert.Nil(t, ParseDays("soon"))
}

func TestParseInfo(t *testing.T) {
	assert.Equal(t, InfoPresent, ParseInfo("S"))
	assert.Equal(t, InfoAbsent, ParseInfo("no"))
	assert.Equal(t, InfoAny, ParseInfo(""))
}
