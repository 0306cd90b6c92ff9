package models

// App represents an installed application
type App struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"column:nombre;type:text;not null"`
	Platform     string `gorm:"column:plataforma;type:text;not null"`
	Category     string `gorm:"column:categoria;type:text"`
	Version      string `gorm:"type:text"`
	Status       string `gorm:"column:estado;type:text;default:Instalada"`
	Free         bool   `gorm:"column:es_gratis"`
	StoreLink    string `gorm:"column:link_tienda;type:text"`
	Notes        string `gorm:"column:notas;type:text"`
	Tags         string `gorm:"type:text"` // comma-separated
	RegisteredAt string `gorm:"column:fecha_reg;type:text"`
}

func (App) TableName() string {
	return "apps"
}

// WebAccount represents an account registered on a web service
type WebAccount struct {
	ID           uint   `gorm:"primaryKey"`
	Site         string `gorm:"column:sitio;type:text;not null"`
	URL          string `gorm:"column:url;type:text"`
	Category     string `gorm:"column:categoria;type:text"`
	Email        string `gorm:"column:email_usuario;type:text"`
	Status       string `gorm:"column:estado;type:text;default:Activa"`
	Plan         string `gorm:"type:text;default:Gratuito"`
	TwoFactor    bool   `gorm:"column:tiene_2fa"`
	Notes        string `gorm:"column:notas;type:text"`
	Tags         string `gorm:"type:text"` // comma-separated
	RegisteredAt string `gorm:"column:fecha_reg;type:text"`
}

func (WebAccount) TableName() string {
	return "cuentas_web"
}

// Page represents a bookmarked web page that needs no account
type Page struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"column:nombre;type:text;not null"`
	URL          string `gorm:"column:url;type:text;not null"`
	Category     string `gorm:"column:categoria;type:text"`
	Description  string `gorm:"column:descripcion;type:text"`
	Tags         string `gorm:"type:text"` // comma-separated
	RegisteredAt string `gorm:"column:fecha_reg;type:text"`
}

func (Page) TableName() string {
	return "paginas_sin_registro"
}
