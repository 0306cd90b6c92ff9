package query

// TagSource tells the builder where a target keeps its tags
type TagSource int

const (
	TagsNone TagSource = iota
	// TagsMetadata matches rows in the metadata table with key "tag"
	TagsMetadata
	// TagsInline matches a comma-separated text column
	TagsInline
)

// Target describes the columns one entity table offers to the builder.
// Empty columns mean the family is not available for that table.
type Target struct {
	Table           string
	IDColumn        string
	NameColumns     []string
	Tags            TagSource
	TagColumn       string
	ExtensionColumn string
	KindColumn      string
	ModifiedColumn  string
	Info            bool

	PlatformColumn string
	CategoryColumn string
	StatusColumn   string

	Orders       map[Order]string
	DefaultOrder Order
}

var Resources = Target{
	Table:           "files",
	IDColumn:        "files.id",
	NameColumns:     []string{"files.path", "files.filename"},
	Tags:            TagsMetadata,
	ExtensionColumn: "files.extension",
	KindColumn:      "files.resource_type",
	ModifiedColumn:  "files.modified_at",
	Info:            true,
	Orders: map[Order]string{
		OrderRecent: "files.modified_at DESC, files.id DESC",
		OrderOldest: "files.modified_at ASC, files.id ASC",
		OrderName:   "files.filename ASC, files.id ASC",
	},
	DefaultOrder: OrderRecent,
}

var Apps = Target{
	Table:          "apps",
	IDColumn:       "apps.id",
	NameColumns:    []string{"apps.nombre"},
	Tags:           TagsInline,
	TagColumn:      "apps.tags",
	PlatformColumn: "apps.plataforma",
	CategoryColumn: "apps.categoria",
	StatusColumn:   "apps.estado",
	Orders: map[Order]string{
		OrderRecent: "apps.fecha_reg DESC, apps.id DESC",
		OrderOldest: "apps.fecha_reg ASC, apps.id ASC",
		OrderName:   "apps.nombre ASC, apps.id ASC",
	},
	DefaultOrder: OrderName,
}

var WebAccounts = Target{
	Table:          "cuentas_web",
	IDColumn:       "cuentas_web.id",
	NameColumns:    []string{"cuentas_web.sitio", "cuentas_web.url"},
	Tags:           TagsInline,
	TagColumn:      "cuentas_web.tags",
	CategoryColumn: "cuentas_web.categoria",
	StatusColumn:   "cuentas_web.estado",
	Orders: map[Order]string{
		OrderRecent: "cuentas_web.fecha_reg DESC, cuentas_web.id DESC",
		OrderOldest: "cuentas_web.fecha_reg ASC, cuentas_web.id ASC",
		OrderName:   "cuentas_web.sitio ASC, cuentas_web.id ASC",
	},
	DefaultOrder: OrderName,
}

var Pages = Target{
	Table:          "paginas_sin_registro",
	IDColumn:       "paginas_sin_registro.id",
	NameColumns:    []string{"paginas_sin_registro.nombre", "paginas_sin_registro.url"},
	Tags:           TagsInline,
	TagColumn:      "paginas_sin_registro.tags",
	CategoryColumn: "paginas_sin_registro.categoria",
	Orders: map[Order]string{
		OrderRecent: "paginas_sin_registro.fecha_reg DESC, paginas_sin_registro.id DESC",
		OrderOldest: "paginas_sin_registro.fecha_reg ASC, paginas_sin_registro.id ASC",
		OrderName:   "paginas_sin_registro.nombre ASC, paginas_sin_registro.id ASC",
	},
	DefaultOrder: OrderName,
}
