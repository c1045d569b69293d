package handlers

import (
	"time"

	"github.com/alsafar-partners/legal-web/internal/cms"
)

// HeroAutoplay is the carousel advance interval.
const HeroAutoplay = 5 * time.Second

// HeroSlideView is a slide with its resolved background.
type HeroSlideView struct {
	cms.HeroSlide
	BackgroundKind string
	BackgroundRef  string
	Active         bool
}

// HomeData is the view model for the home page.
type HomeData struct {
	Layout
	Hero         []HeroSlideView
	AutoplayMs   int64
	Services     []cms.Service
	Team         []cms.TeamMember
	Testimonials []cms.Testimonial
}

// BuildHomeData assembles the landing page from resolved content. The first slide starts
// active.
func BuildHomeData(layout Layout, hero []cms.HeroSlide, services []cms.Service, team []cms.TeamMember, testimonials []cms.Testimonial) HomeData {
	slides := make([]HeroSlideView, 0, len(hero))
	for i, s := range hero {
		kind, ref := s.Background()
		slides = append(slides, HeroSlideView{HeroSlide: s, BackgroundKind: kind, BackgroundRef: ref, Active: i == 0})
	}
	return HomeData{
		Layout:       layout,
		Hero:         slides,
		AutoplayMs:   HeroAutoplay.Milliseconds(),
		Services:     services,
		Team:         team,
		Testimonials: testimonials,
	}
}
