// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/pkg/apiutil"
	"github.com/dairylink/outreach/pkg/errors"
	"github.com/dairylink/outreach/segments"
	"github.com/go-kit/kit/endpoint"
)

func estimateEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(estimateReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}
		policy, _ := segments.ToPolicy(req.Policy)

		est, err := svc.Estimate(ctx, req.Message, policy)
		if err != nil {
			return nil, err
		}
		res := estimateRes{Estimate: est}
		if req.parts {
			if res.Parts, err = svc.Split(ctx, req.Message, policy); err != nil {
				return nil, err
			}
		}

		return res, nil
	}
}

func quoteEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(quoteReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		q, err := svc.Quote(ctx, req.draft())
		if err != nil {
			return nil, err
		}

		return quoteRes{Quote: q}, nil
	}
}

func validateRecipientsEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(validateRecipientsReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		parsed, err := svc.ValidateRecipients(ctx, req.Numbers)
		if err != nil {
			return nil, err
		}

		return recipientsRes{Parsed: parsed}, nil
	}
}

func listTemplatesEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		tpls, err := svc.ListTemplates(ctx)
		if err != nil {
			return nil, err
		}

		return templatesRes{Templates: tpls}, nil
	}
}

func renderTemplateEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(renderTemplateReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		r, err := svc.RenderTemplate(ctx, req.id, req.Values)
		if err != nil {
			return nil, err
		}

		return renderRes{Rendered: r}, nil
	}
}

func createCampaignEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(createCampaignReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		c, err := svc.CreateCampaign(ctx, req.draft())
		if err != nil {
			return nil, err
		}

		return campaignRes{Campaign: c, created: true}, nil
	}
}

func viewCampaignEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(campaignReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		c, err := svc.ViewCampaign(ctx, req.id)
		if err != nil {
			return nil, err
		}

		return campaignRes{Campaign: c}, nil
	}
}

func listCampaignsEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(listReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		page, err := svc.ListCampaigns(ctx, req.pm)
		if err != nil {
			return nil, err
		}

		res := campaignsPageRes{
			pageRes: pageRes{
				Total:  page.Total,
				Offset: page.Offset,
				Limit:  page.Limit,
			},
			Campaigns: page.Campaigns,
		}
		if res.Campaigns == nil {
			res.Campaigns = []campaigns.Campaign{}
		}

		return res, nil
	}
}

func sendCampaignEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(campaignReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		c, err := svc.SendCampaign(ctx, req.id)
		if err != nil {
			return nil, err
		}

		return campaignRes{Campaign: c}, nil
	}
}

func cancelCampaignEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(campaignReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		c, err := svc.CancelCampaign(ctx, req.id)
		if err != nil {
			return nil, err
		}

		return campaignRes{Campaign: c}, nil
	}
}

func listGroupsEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		gs, err := svc.ListGroups(ctx)
		if err != nil {
			return nil, err
		}
		if gs == nil {
			gs = []campaigns.Group{}
		}

		return groupsRes{Groups: gs}, nil
	}
}

func addBlacklistEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(addBlacklistReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		entry, err := svc.AddToBlacklist(ctx, campaigns.BlacklistEntry{
			Number:  req.Number,
			Reason:  req.Reason,
			Source:  req.Source,
			AddedBy: req.AddedBy,
		})
		if err != nil {
			return nil, err
		}

		return blacklistRes{BlacklistEntry: entry}, nil
	}
}

func listBlacklistEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(listReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		page, err := svc.ListBlacklist(ctx, req.pm)
		if err != nil {
			return nil, err
		}

		res := blacklistPageRes{
			pageRes: pageRes{
				Total:  page.Total,
				Offset: page.Offset,
				Limit:  page.Limit,
			},
			Entries: page.Entries,
		}
		if res.Entries == nil {
			res.Entries = []campaigns.BlacklistEntry{}
		}

		return res, nil
	}
}

func removeBlacklistEndpoint(svc campaigns.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(removeBlacklistReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		if err := svc.RemoveFromBlacklist(ctx, req.number); err != nil {
			return nil, err
		}

		return removeRes{}, nil
	}
}
