// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"fmt"
	"net/http"

	"github.com/dairylink/outreach"
	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/recipients"
	"github.com/dairylink/outreach/segments"
)

var (
	_ outreach.Response = (*estimateRes)(nil)
	_ outreach.Response = (*quoteRes)(nil)
	_ outreach.Response = (*recipientsRes)(nil)
	_ outreach.Response = (*templatesRes)(nil)
	_ outreach.Response = (*renderRes)(nil)
	_ outreach.Response = (*campaignRes)(nil)
	_ outreach.Response = (*campaignsPageRes)(nil)
	_ outreach.Response = (*blacklistRes)(nil)
	_ outreach.Response = (*blacklistPageRes)(nil)
	_ outreach.Response = (*removeRes)(nil)
	_ outreach.Response = (*groupsRes)(nil)
)

type estimateRes struct {
	segments.Estimate `json:",inline"`
	Parts             []string `json:"parts,omitempty"`
}

func (res estimateRes) Code() int {
	return http.StatusOK
}

func (res estimateRes) Headers() map[string]string {
	return map[string]string{}
}

func (res estimateRes) Empty() bool {
	return false
}

type quoteRes struct {
	campaigns.Quote `json:",inline"`
}

func (res quoteRes) Code() int {
	return http.StatusOK
}

func (res quoteRes) Headers() map[string]string {
	return map[string]string{}
}

func (res quoteRes) Empty() bool {
	return false
}

type recipientsRes struct {
	recipients.Parsed `json:",inline"`
}

func (res recipientsRes) Code() int {
	return http.StatusOK
}

func (res recipientsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res recipientsRes) Empty() bool {
	return false
}

type templatesRes struct {
	Templates []campaigns.Template `json:"templates"`
}

func (res templatesRes) Code() int {
	return http.StatusOK
}

func (res templatesRes) Headers() map[string]string {
	return map[string]string{}
}

func (res templatesRes) Empty() bool {
	return false
}

type renderRes struct {
	campaigns.Rendered `json:",inline"`
}

func (res renderRes) Code() int {
	return http.StatusOK
}

func (res renderRes) Headers() map[string]string {
	return map[string]string{}
}

func (res renderRes) Empty() bool {
	return false
}

type campaignRes struct {
	campaigns.Campaign `json:",inline"`
	created            bool
}

func (res campaignRes) Code() int {
	if res.created {
		return http.StatusCreated
	}

	return http.StatusOK
}

func (res campaignRes) Headers() map[string]string {
	if res.created {
		return map[string]string{
			"Location": fmt.Sprintf("/campaigns/%s", res.ID),
		}
	}

	return map[string]string{}
}

func (res campaignRes) Empty() bool {
	return false
}

type pageRes struct {
	Total  uint64 `json:"total"`
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type campaignsPageRes struct {
	pageRes
	Campaigns []campaigns.Campaign `json:"campaigns"`
}

func (res campaignsPageRes) Code() int {
	return http.StatusOK
}

func (res campaignsPageRes) Headers() map[string]string {
	return map[string]string{}
}

func (res campaignsPageRes) Empty() bool {
	return false
}

type blacklistRes struct {
	campaigns.BlacklistEntry `json:",inline"`
}

func (res blacklistRes) Code() int {
	return http.StatusCreated
}

func (res blacklistRes) Headers() map[string]string {
	return map[string]string{}
}

func (res blacklistRes) Empty() bool {
	return false
}

type blacklistPageRes struct {
	pageRes
	Entries []campaigns.BlacklistEntry `json:"entries"`
}

func (res blacklistPageRes) Code() int {
	return http.StatusOK
}

func (res blacklistPageRes) Headers() map[string]string {
	return map[string]string{}
}

func (res blacklistPageRes) Empty() bool {
	return false
}

type removeRes struct{}

func (res removeRes) Code() int {
	return http.StatusNoContent
}

func (res removeRes) Headers() map[string]string {
	return map[string]string{}
}

func (res removeRes) Empty() bool {
	return true
}

type groupsRes struct {
	Groups []campaigns.Group `json:"groups"`
}

func (res groupsRes) Code() int {
	return http.StatusOK
}

func (res groupsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res groupsRes) Empty() bool {
	return false
}
