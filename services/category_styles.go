package services

import "github.com/LovationAdmin/horizon-api/models"

const DefaultStyleKey = "default"

var categoryStyles = map[string]models.CategoryStyle{
	"Food and Drink": {
		BorderColor:         "border-pink-600",
		BackgroundColor:     "bg-pink-500",
		TextColor:           "text-pink-700",
		ChipBackgroundColor: "bg-inherit",
	},
	"Payment": {
		BorderColor:         "border-success-600",
		BackgroundColor:     "bg-green-600",
		TextColor:           "text-success-700",
		ChipBackgroundColor: "bg-inherit",
	},
	"Bank Fees": {
		BorderColor:         "border-success-600",
		BackgroundColor:     "bg-green-600",
		TextColor:           "text-success-700",
		ChipBackgroundColor: "bg-inherit",
	},
	"Transfer": {
		BorderColor:         "border-red-700",
		BackgroundColor:     "bg-red-700",
		TextColor:           "text-red-700",
		ChipBackgroundColor: "bg-inherit",
	},
	"Processing": {
		BorderColor:         "border-[#F2F4F7]",
		BackgroundColor:     "bg-gray-500",
		TextColor:           "text-[#344054]",
		ChipBackgroundColor: "bg-[#F2F4F7]",
	},
	"Success": {
		BorderColor:         "border-[#12B76A]",
		BackgroundColor:     "bg-[#12B76A]",
		TextColor:           "text-[#027A48]",
		ChipBackgroundColor: "bg-[#ECFDF3]",
	},
	"Travel": {
		BorderColor:         "border-[#0047AB]",
		BackgroundColor:     "bg-blue-500",
		TextColor:           "text-blue-700",
		ChipBackgroundColor: "bg-[#ECFDF3]",
	},
	DefaultStyleKey: {
		BorderColor:         "",
		BackgroundColor:     "bg-blue-500",
		TextColor:           "text-blue-700",
		ChipBackgroundColor: "bg-inherit",
	},
}

// StyleFor returns the badge colors for a category. Lookup is exact and
// case-sensitive; unknown categories get the default record.
func StyleFor(category string) models.CategoryStyle {
	if style, ok := categoryStyles[category]; ok {
		return style
	}
	return categoryStyles[DefaultStyleKey]
}
