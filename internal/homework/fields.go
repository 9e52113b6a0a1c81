package homework

import (
	"unicode/utf8"

	"github.com/schoolplanner/backend/internal/merge"
	"github.com/schoolplanner/backend/internal/models"
)

// patchFields maps the sparse PATCH body onto merge fields targeting the
// working copy hw. classOK carries the pre-resolved ownership check for a
// supplied class reference.
func patchFields(hw *models.Homework, p *models.HomeworkPatch, classOK bool) []merge.Field {
	return []merge.Field{
		{
			Name: "class",
			Set:  p.ClassID != nil,
			Validate: func() string {
				if !classOK {
					return "Class does not exist or you are not the owner"
				}
				return ""
			},
			Apply: func() { hw.ClassID = *p.ClassID },
		},
		{
			Name: "deadline",
			Set:  p.Deadline != nil,
			Validate: func() string {
				if !validDeadline(*p.Deadline) {
					return "Invalid deadline"
				}
				return ""
			},
			Apply: func() { hw.Deadline = *p.Deadline },
		},
		{
			Name: "text",
			Set:  p.Text != nil,
			Validate: func() string {
				if utf8.RuneCountInString(*p.Text) > 75 {
					return "Text is too long"
				}
				return ""
			},
			Apply: func() { hw.Text = *p.Text },
		},
		{
			Name: "type",
			Set:  p.Type != nil,
			Validate: func() string {
				if !validType(*p.Type) {
					return "Invalid type"
				}
				return ""
			},
			Apply: func() { hw.Type = *p.Type },
		},
		{
			Name: "status",
			Set:  p.Status != nil,
			Validate: func() string {
				if !validStatus(p.Status.String()) {
					return "Invalid status"
				}
				return ""
			},
			Apply: func() {
				s := p.Status.String()
				hw.Status = &s
			},
		},
	}
}
