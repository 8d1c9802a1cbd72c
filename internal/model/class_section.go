package model

// Weekday values as stored in time-slot records. The Portuguese strings are
// the wire format the legacy data already uses.
const (
	WeekdayMonday    = "segunda"
	WeekdayTuesday   = "terca"
	WeekdayWednesday = "quarta"
	WeekdayThursday  = "quinta"
	WeekdayFriday    = "sexta"
	WeekdaySaturday  = "sabado"
)

// TimeSlot is one recurring weekly occupation interval ("horario") owned by
// a class section. Times are "HH:MM" strings. Slots are kept in the order
// they were entered; nothing validates slots against each other or against
// other sections.
type TimeSlot struct {
	Weekday   string `json:"dia_semana" binding:"required,oneof=segunda terca quarta quinta sexta sabado"`
	StartTime string `json:"hora_inicio" binding:"required,datetime=15:04"`
	EndTime   string `json:"hora_fim" binding:"required,datetime=15:04"`
}

// ClassSection is an offered class group ("turma"). DisciplineKey and
// RoomKey hold natural keys (Discipline.Code, Room.Number) rather than
// record ids; dangling values are tolerated and resolved at display time.
// CapacityUsed and CapacityTotal are independent counters with no enforced
// relationship between them.
type ClassSection struct {
	ID            string     `json:"_id,omitempty"`
	SectionCode   string     `json:"codigo_turma"`
	DisciplineKey string     `json:"disciplina_id"`
	Instructor    string     `json:"professor"`
	TermHalf      int        `json:"semestre"`
	Year          int        `json:"ano"`
	TimeSlots     []TimeSlot `json:"horarios,omitempty"`
	RoomKey       string     `json:"sala_id"`
	CapacityTotal int        `json:"vagas_total"`
	CapacityUsed  int        `json:"vagas_ocupadas"`
	Active        bool       `json:"ativa"`
	Notes         string     `json:"observacoes,omitempty"`
}

// ClassSectionRequest is the payload for creating or replacing a section.
// The referenced discipline code and room number are accepted as-is; the
// selection lists in the UI are the only guard against dangling keys.
type ClassSectionRequest struct {
	SectionCode   string     `json:"codigo_turma" binding:"required,max=40"`
	DisciplineKey string     `json:"disciplina_id" binding:"required,max=20"`
	Instructor    string     `json:"professor" binding:"required,min=2,max=150"`
	TermHalf      int        `json:"semestre" binding:"required,oneof=1 2"`
	Year          int        `json:"ano" binding:"required,min=2000,max=2100"`
	TimeSlots     []TimeSlot `json:"horarios" binding:"omitempty,dive"`
	RoomKey       string     `json:"sala_id" binding:"required,max=20"`
	CapacityTotal int        `json:"vagas_total" binding:"required,min=1"`
	CapacityUsed  *int       `json:"vagas_ocupadas" binding:"required,min=0"`
	Active        *bool      `json:"ativa" binding:"required"`
	Notes         string     `json:"observacoes" binding:"omitempty,max=2000"`
}

// ClassSectionView is a section enriched with display-time resolution of
// its natural-key references.
type ClassSectionView struct {
	ClassSection
	DisciplineName string `json:"disciplina_nome"`
	RoomName       string `json:"sala_nome"`
}
