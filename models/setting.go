package models

import "time"

// Setting is one key/value row of site configuration.
type Setting struct {
	Key       string    `gorm:"column:setting_key;primaryKey;size:100" json:"key"`
	Value     string    `gorm:"column:setting_value;type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "site_settings" }

const (
	SettingCurrencySymbol         = "currency_symbol"
	SettingVATEnabled             = "vat_enabled"
	SettingVATRate                = "vat_rate"
	SettingDefaultChildMultiplier = "default_child_price_multiplier"
	SettingBookingSystemEnabled   = "booking_system_enabled"
	SettingSiteName               = "site_name"
	SettingWhatsAppEnabled        = "whatsapp_enabled"
	SettingWhatsAppNumber         = "whatsapp_number"
	SettingEmailNotifications     = "email_notifications_enabled"
)
