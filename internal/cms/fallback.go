package cms

import (
	"slices"
	"strconv"
)

// Static image lists used both by the fallback catalog and as per-index defaults when a CMS
// entry omits an image.
var (
	heroBackgrounds = []string{
		"https://images.unsplash.com/photo-1449824913935-59a10b8d2000?w=1920&h=1080&fit=crop",
		"https://images.unsplash.com/photo-1444723121867-7a241cacace9?w=1920&h=1080&fit=crop",
		"https://images.unsplash.com/photo-1496442226666-8d4d0e62e6e9?w=1920&h=1080&fit=crop",
	}
	profileImages = []string{
		"https://images.unsplash.com/photo-1560250097-0b93528c311a?w=400&h=500&fit=crop&face=center",
		"https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?w=400&h=500&fit=crop&face=center",
		"https://images.unsplash.com/photo-1582750433449-648ed127bb54?w=400&h=500&fit=crop&face=center",
	}
)

// fallbackHeroSlides carry no strings; titles and descriptions come from the locale bundle
// under hero.title<ID> / hero.description<ID>.
var fallbackHeroSlides = []HeroSlide{
	{
		ID:              1,
		BackgroundVideo: "/videos/office.mp4",
		ProfileImage:    profileImages[0],
	},
	{
		ID:              2,
		BackgroundImage: heroBackgrounds[1],
		ProfileImage:    profileImages[1],
	},
	{
		ID:              3,
		BackgroundImage: heroBackgrounds[2],
		ProfileImage:    profileImages[2],
	},
}

var fallbackTeamMembers = []TeamMember{
	{
		ID:       1,
		Name:     "Ahmed Al-Rashid",
		Position: "Senior Legal Consultant",
		Image:    profileImages[0],
		Socials: Socials{
			WhatsApp: "https://wa.me/1234567890",
			Phone:    "tel:+1234567890",
			Email:    "mailto:ahmed@legalfirm.com",
		},
	},
	{
		ID:       2,
		Name:     "Sarah Johnson",
		Position: "Corporate Law Specialist",
		Image:    profileImages[1],
		Socials: Socials{
			WhatsApp: "https://wa.me/1234567891",
			Phone:    "tel:+1234567891",
			Email:    "mailto:sarah@legalfirm.com",
		},
	},
	{
		ID:       3,
		Name:     "Mohammed Hassan",
		Position: "Litigation Attorney",
		Image:    profileImages[2],
		Socials: Socials{
			WhatsApp: "https://wa.me/1234567892",
			Phone:    "tel:+1234567892",
			Email:    "mailto:mohammed@legalfirm.com",
		},
	},
}

var fallbackTestimonials = []Testimonial{
	{
		ID:       1,
		Text:     "With the help of the hospitable staff of Al Safar and Partners I was able to get my work done without any hassle. The help I received helped me a great deal to overcome the issues that I faced. I was always updated about my case and my queries never went unanswered.",
		Author:   "Mohammed Saif",
		Position: "CEO",
		Company:  "Tech Solutions Ltd",
		Image:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop&face=center",
	},
}

// fallbackServices lists the catalog of record. Content for slugs with an embedded markdown
// page is loaded from content/services.
var fallbackServices = []Service{
	{ID: 1, Title: "Legal Consultation Services", Slug: "legal-consultation"},
	{ID: 2, Title: "Foreign Investment Services", Slug: "foreign-investment", Content: "Professional foreign investment services and consultation."},
	{ID: 3, Title: "Contracts", Slug: "contracts", Content: "Professional contract services and consultation."},
	{ID: 4, Title: "Notarization", Slug: "notarization", Content: "Professional notarization services and consultation."},
	{ID: 5, Title: "Insurance", Slug: "insurance", Content: "Professional insurance services and consultation."},
	{ID: 6, Title: "Banks and Financial Institutions", Slug: "banking", Content: "Professional banking services and consultation."},
	{ID: 7, Title: "Corporate Governance Services", Slug: "corporate-governance", Content: "Professional corporate governance services and consultation."},
	{ID: 8, Title: "Companies Liquidation", Slug: "liquidation", Content: "Professional company liquidation services and consultation."},
}

// FallbackHeroSlides returns the static slides without localized strings.
func FallbackHeroSlides() []HeroSlide { return slices.Clone(fallbackHeroSlides) }

// FallbackTeamMembers returns a copy of the static team.
func FallbackTeamMembers() []TeamMember { return slices.Clone(fallbackTeamMembers) }

// FallbackTestimonials returns a copy of the static testimonials.
func FallbackTestimonials() []Testimonial { return slices.Clone(fallbackTestimonials) }

// FallbackServices returns a copy of the static services, with embedded page bodies attached.
func FallbackServices() []Service {
	out := slices.Clone(fallbackServices)
	for i := range out {
		if page, err := servicePage(out[i].Slug); err == nil {
			out[i].Content = page.Body
			if out[i].Description == "" {
				out[i].Description = page.Summary
			}
		}
	}
	return out
}

func heroBackgroundAt(i int) string { return cycle(heroBackgrounds, i) }

func profileImageAt(i int) string { return cycle(profileImages, i) }

func cycle(list []string, i int) string {
	if len(list) == 0 || i < 0 {
		return ""
	}
	return list[i%len(list)]
}

func heroTitleKey(id int) string { return "hero.title" + strconv.Itoa(id) }

func heroDescriptionKey(id int) string { return "hero.description" + strconv.Itoa(id) }
