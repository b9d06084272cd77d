package transport

import (
	"github.com/taskdeck/backend/api/validation"
	"github.com/taskdeck/backend/domain"
)

var priorityValues = []string{
	string(domain.PriorityLow),
	string(domain.PriorityMedium),
	string(domain.PriorityHigh),
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterSchema mirrors RegisterRequest for the validation pipeline.
var RegisterSchema = validation.Schema{
	{Name: "name", Rules: []validation.Rule{
		validation.Required("Name required"),
		validation.String(),
	}},
	{Name: "email", Rules: []validation.Rule{
		validation.Required("Valid email required"),
		validation.Email("Valid email required"),
	}},
	{Name: "password", Rules: []validation.Rule{
		validation.Required("Password required"),
		validation.MinLength(6, "Password min 6 chars"),
		validation.String(),
	}},
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var LoginSchema = validation.Schema{
	{Name: "email", Rules: []validation.Rule{
		validation.Required("Valid email required"),
		validation.Email("Valid email required"),
	}},
	{Name: "password", Rules: []validation.Rule{
		validation.Required("Password required"),
		validation.String(),
	}},
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	EndDate     string `json:"endDate"`
}

var CreateTaskSchema = validation.Schema{
	{Name: "title", Rules: []validation.Rule{
		validation.Required("Title required"),
		validation.String(),
	}},
	{Name: "description", Rules: []validation.Rule{
		validation.String(),
	}},
	{Name: "priority", Rules: []validation.Rule{
		validation.Required("Priority required"),
		validation.Enum(priorityValues, "Priority must be LOW, MEDIUM, or HIGH"),
	}},
	{Name: "endDate", Rules: []validation.Rule{
		validation.Required(""),
		validation.String(),
	}},
}

// UpdateTaskRequest carries a partial merge: nil pointers mean the field
// was not supplied and keeps its stored value.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	EndDate     *string `json:"endDate"`
}

var UpdateTaskSchema = validation.Schema{
	{Name: "title", Rules: []validation.Rule{
		validation.String(),
	}},
	{Name: "description", Rules: []validation.Rule{
		validation.String(),
	}},
	{Name: "priority", Rules: []validation.Rule{
		validation.Enum(priorityValues, "Priority must be LOW, MEDIUM, or HIGH"),
	}},
	{Name: "endDate", Rules: []validation.Rule{
		validation.String(),
	}},
}
