package models

import auditmodels "kaliroot-admin/internal/features/audit/models"

// Section ids of the admin dashboard.
const (
	SectionOverview      = "overview"
	SectionUsers         = "users"
	SectionSubscriptions = "subscriptions"
	SectionResources     = "resources"
	SectionLearning      = "learning"
	SectionBadges        = "badges"
	SectionAudit         = "audit"
)

type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Sections in navigation order.
var Sections = []Section{
	{ID: SectionOverview, Title: "Dashboard"},
	{ID: SectionUsers, Title: "Gestión de Usuarios"},
	{ID: SectionSubscriptions, Title: "Suscripciones"},
	{ID: SectionResources, Title: "Recursos de Descarga"},
	{ID: SectionLearning, Title: "Módulos de Aprendizaje"},
	{ID: SectionBadges, Title: "Insignias"},
	{ID: SectionAudit, Title: "Log de Auditoría"},
}

// LookupSection returns the section with id, falling back to the overview.
func LookupSection(id string) Section {
	for _, s := range Sections {
		if s.ID == id {
			return s
		}
	}
	return Sections[0]
}

type Stats struct {
	Users        int64 `json:"users"`
	Premium      int64 `json:"premium"`
	TotalCredits int64 `json:"total_credits"`
	Resources    int64 `json:"resources"`
}

type Overview struct {
	Stats          Stats                       `json:"stats"`
	RecentActivity []auditmodels.EntryResponse `json:"recent_activity"`
	Cached         bool                        `json:"cached"`
}

// SectionView is one refreshed section.
type SectionView struct {
	Section Section `json:"section"`
	Data    any     `json:"data"`
}
