package installer

const (
	ChannelWebhook  = "Twilio webhook"
	ChannelTelegram = "Telegram"
	ChannelCLI      = "Local CLI"
)
