package training

import "fmt"

const finalMessage = "Обучение завершено! 🎉\n" +
	"Теперь тебе доступны все возможности: карта, локации и группы.\n" +
	"Ты всегда можешь пройти обучение заново /repeat_training"

// MainMessage formats the onboarding prompt shown with the main menu for the
// given stage.
func MainMessage(stage Stage, firstName string) string {
	if firstName == "" {
		firstName = "Дорогой друг"
	}

	switch stage {
	case StageNew:
		return fmt.Sprintf(
			"%s, привет! Я помогу тебе делиться локациями с друзьями.\n"+
				"Для начала открой карту 🌍 — так ты увидишь, как выглядят сохранённые точки.\n"+
				"Пропустить обучение: /skip_training",
			firstName,
		)
	case StageMapShown:
		return fmt.Sprintf(
			"%s, отлично! Ты открыл карту.\n"+
				"Теперь попробуй добавить свою первую локацию — нажми «Мои локации».\n"+
				"Пропустить обучение: /skip_training",
			firstName,
		)
	case StageAddPrompted:
		return fmt.Sprintf(
			"%s, добавь свою первую точку: сначала описание, затем геопозицию 📍.\n"+
				"Отменить можно командой /cancel",
			firstName,
		)
	case StageLocationSaved:
		return fmt.Sprintf(
			"%s, локация сохранена ✅\n"+
				"Посмотри список своих локаций — на этом обучение закончится.",
			firstName,
		)
	default:
		return finalMessage
	}
}
