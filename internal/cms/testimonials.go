package cms

import "context"

// Testimonials resolves the client testimonials list.
func (r *Resolver) Testimonials(ctx context.Context) Resolution[Testimonial] {
	return resolve(ctx, r, ResourceTestimonials, buildTestimonial, FallbackTestimonials)
}

func buildTestimonial(el element[testimonialFields]) Testimonial {
	return Testimonial{
		ID:       el.ID,
		Text:     orDefault(el.Fields.Text, ""),
		Author:   orDefault(el.Fields.Author, ""),
		Position: orDefault(el.Fields.Position, ""),
		Company:  orDefault(el.Fields.Company, ""),
		Image:    orDefault(el.Fields.ImageURL, fallbackTestimonials[0].Image),
	}
}
