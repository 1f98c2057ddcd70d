package model

import (
	"time"

	"github.com/google/uuid"
)

// Class is a named roster owned by one teacher.
type Class struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"className"`
	Teacher    string    `json:"teacher"`
	StudentIDs []string  `json:"studentIds"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateClassRequest is the payload for creating a class.
type CreateClassRequest struct {
	ClassName string   `json:"className" binding:"required,trimmed,min=1,max=100"`
	UserIDs   []string `json:"userIds" binding:"omitempty,max=500,dive,required,max=64"`
}

// ModifyRosterRequest adds and removes students from an existing class.
type ModifyRosterRequest struct {
	AddIDs    []string `json:"addIds" binding:"omitempty,max=500,dive,required,max=64"`
	RemoveIDs []string `json:"removeIds" binding:"omitempty,max=500,dive,required,max=64"`
}
