package bot

// Command constants for Telegram bot commands.
const (
	CommandStart          = "/start"
	CommandAbout          = "/about"
	CommandHelp           = "/help"
	CommandMain           = "/main"
	CommandCancel         = "/cancel"
	CommandSkipTraining   = "/skip_training"
	CommandRepeatTraining = "/repeat_training"
)

// Callback prefix constants for inline button interactions.
const (
	CallbackLocations         = "locations"
	CallbackListLocations     = "list_locations"
	CallbackAddLocation       = "add_location"
	CallbackDeleteLocation    = "delete_location_"
	CallbackMyGroups          = "my_groups"
	CallbackLeaveGroup        = "leave_group_"
	CallbackAdminGroups       = "admin_groups"
	CallbackListManagedGroups = "list_managed_groups"
	CallbackAddManageGroup    = "add_manage_group"
	CallbackDeleteGroup       = "delete_group_"

	CallbackTrainingStartMap      = "training_start_map"
	CallbackTrainingAddLocation   = "training_add_location"
	CallbackTrainingListLocations = "training_list_locations"
)
