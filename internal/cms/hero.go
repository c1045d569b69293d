package cms

import "context"

// Hero resolves the hero carousel for lang. Slide strings always come from the locale bundle
// keyed by slide id, so they are recomputed on every call.
func (r *Resolver) Hero(ctx context.Context, lang string) Resolution[HeroSlide] {
	res := resolve(ctx, r, ResourceHeroSlides, buildHeroSlide, FallbackHeroSlides)
	for i := range res.Items {
		res.Items[i].Title = r.translate(lang, heroTitleKey(res.Items[i].ID))
		res.Items[i].Description = r.translate(lang, heroDescriptionKey(res.Items[i].ID))
	}
	return res
}

func buildHeroSlide(el element[heroFields]) HeroSlide {
	slide := HeroSlide{
		ID:           el.ID,
		ProfileImage: orDefault(el.Fields.ProfileImageURL, profileImageAt(el.Index)),
	}
	if video := orDefault(el.Fields.BackgroundVideoURL, ""); video != "" {
		slide.BackgroundVideo = video
		return slide
	}
	slide.BackgroundImage = orDefault(el.Fields.BackgroundImageURL, heroBackgroundAt(el.Index))
	return slide
}
