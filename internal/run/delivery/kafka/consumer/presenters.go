package consumer

import (
	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	kafkaDelivery "campaignqa-srv/internal/run/delivery/kafka"
)

// toSubmitInput maps the Kafka message to usecase input. Programmatic submissions are always input_method api.
func toSubmitInput(m kafkaDelivery.SubmitRunMessage) run.SubmitInput {
	urls := make([]run.URLInput, len(m.URLs))
	for i, u := range m.URLs {
		urls[i] = run.URLInput{
			URL:          u.URL,
			AdName:       u.AdName,
			AdSetName:    u.AdSetName,
			CampaignName: u.CampaignName,
		}
	}
	return run.SubmitInput{
		RunName:           m.RunName,
		Platform:          model.Platform(m.Platform),
		InputMethod:       model.InputMethodAPI,
		URLs:              urls,
		CampaignName:      m.CampaignName,
		CampaignObjective: m.CampaignObjective,
		IndustryVertical:  m.IndustryVertical,
		Headline:          m.Headline,
		PrimaryText:       m.PrimaryText,
		Description:       m.Description,
		Extra:             m.Extra,
	}
}
