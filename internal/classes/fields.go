package classes

import (
	"unicode/utf8"

	"github.com/schoolplanner/backend/internal/merge"
	"github.com/schoolplanner/backend/internal/models"
)

// patchFields maps the sparse PATCH body onto merge fields targeting the
// working copy c. Validate and Apply closures only run for present fields.
func patchFields(c *models.Class, p *models.ClassPatch) []merge.Field {
	return []merge.Field{
		{
			Name: "name",
			Set:  p.Name != nil,
			Validate: func() string {
				if utf8.RuneCountInString(*p.Name) > 20 {
					return "Name is too long"
				}
				return ""
			},
			Apply: func() { c.Name = *p.Name },
		},
		{
			Name: "color",
			Set:  p.Color != nil,
			Validate: func() string {
				if !colorRe.MatchString(*p.Color) {
					return "Invalid color"
				}
				return ""
			},
			Apply: func() { c.Color = *p.Color },
		},
		weightField("grade_k", p.GradeK, &c.GradeK),
		weightField("grade_m", p.GradeM, &c.GradeM),
		{
			Name: "grade_t",
			Set:  p.GradeT != nil,
			Validate: func() string {
				if !p.GradeT.IsNumber() && p.GradeT.String() != "1exam" {
					return "Invalid grade_t"
				}
				return ""
			},
			Apply: func() { c.GradeT = p.GradeT.String() },
		},
		weightField("grade_s", p.GradeS, &c.GradeS),
		{
			Name: "average",
			Set:  p.Average != nil,
			Validate: func() string {
				if !p.Average.IsNumber() {
					return "Invalid average"
				}
				return ""
			},
			Apply: func() {
				v, _ := p.Average.Float()
				c.Average = &v
			},
		},
	}
}

func weightField(name string, src *models.Numeric, dst *float64) merge.Field {
	return merge.Field{
		Name: name,
		Set:  src != nil,
		Validate: func() string {
			if !src.IsNumber() {
				return "Invalid " + name
			}
			return ""
		},
		Apply: func() {
			v, _ := src.Float()
			*dst = v
		},
	}
}
