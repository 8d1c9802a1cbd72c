package model

// Discipline is a course ("disciplina"). Codigo is the natural key that
// class sections reference through their disciplina_id field; prerequisites
// is an ordered list of other discipline codes, never validated against the
// catalog.
type Discipline struct {
	ID            string   `json:"_id,omitempty"`
	Code          string   `json:"codigo"`
	Name          string   `json:"nome"`
	WeeklyHours   int      `json:"carga_horaria"`
	Department    string   `json:"departamento"`
	Syllabus      string   `json:"ementa,omitempty"`
	Prerequisites []string `json:"pre_requisitos,omitempty"`
	Credits       int      `json:"creditos"`
	Active        bool     `json:"ativa"`
}

// DisciplineRequest is the payload for creating or replacing a discipline.
type DisciplineRequest struct {
	Code          string   `json:"codigo" binding:"required,max=20"`
	Name          string   `json:"nome" binding:"required,min=2,max=150"`
	WeeklyHours   int      `json:"carga_horaria" binding:"required,min=1"`
	Department    string   `json:"departamento" binding:"required,max=100"`
	Syllabus      string   `json:"ementa" binding:"omitempty,max=5000"`
	Prerequisites []string `json:"pre_requisitos" binding:"omitempty,dive,max=20"`
	Credits       int      `json:"creditos" binding:"required,min=1"`
	Active        *bool    `json:"ativa" binding:"required"`
}
