package cms

// HeroSlide is a resolved hero carousel slide. Title and Description are already localized.
type HeroSlide struct {
	ID              int
	Title           string
	Description     string
	BackgroundVideo string
	BackgroundImage string
	ProfileImage    string
}

// Background kinds returned by HeroSlide.Background.
const (
	BackgroundVideo = "video"
	BackgroundImage = "image"
)

// Background reports which background the slide renders. A video always wins over an image.
func (s HeroSlide) Background() (kind, ref string) {
	switch {
	case s.BackgroundVideo != "":
		return BackgroundVideo, s.BackgroundVideo
	case s.BackgroundImage != "":
		return BackgroundImage, s.BackgroundImage
	default:
		return "", ""
	}
}

// TeamMember is a resolved team profile.
type TeamMember struct {
	ID       int
	Name     string
	Position string
	Image    string
	Socials  Socials
}

// Socials holds optional contact links for a team member.
type Socials struct {
	WhatsApp string
	Phone    string
	Email    string
}

// Service is a resolved legal service. Slug is the detail page lookup key.
type Service struct {
	ID          int
	Title       string
	Slug        string
	Description string
	Content     string
}

// Testimonial is a resolved client testimonial.
type Testimonial struct {
	ID       int
	Text     string
	Author   string
	Position string
	Company  string
	Image    string
}
