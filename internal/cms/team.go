package cms

import "context"

// Team resolves the team members list.
func (r *Resolver) Team(ctx context.Context) Resolution[TeamMember] {
	return resolve(ctx, r, ResourceTeamMembers, buildTeamMember, FallbackTeamMembers)
}

func buildTeamMember(el element[teamFields]) TeamMember {
	return TeamMember{
		ID:       el.ID,
		Name:     orDefault(el.Fields.Name, ""),
		Position: orDefault(el.Fields.Position, ""),
		Image:    orDefault(el.Fields.ImageURL, profileImageAt(el.Index)),
		Socials: Socials{
			WhatsApp: orDefault(el.Fields.Socials.WhatsApp, ""),
			Phone:    orDefault(el.Fields.Socials.Phone, ""),
			Email:    orDefault(el.Fields.Socials.Email, ""),
		},
	}
}
