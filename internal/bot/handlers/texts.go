package handlers

import "fmt"

const mainMenuHint = "/main - Главное меню"

const aboutMessage = "Я бот для обмена локациями 🌍\n" +
	"Сохраняй интересные места, смотри их на общей карте и делись ими " +
	"с друзьями через группы.\n" +
	mainMenuHint

const helpMessage = "Что я умею:\n" +
	"/main - главное меню\n" +
	"/cancel - отменить текущее действие\n" +
	"/skip_training - пропустить обучение\n" +
	"/repeat_training - пройти обучение заново\n" +
	"/about - о боте"

func welcomeMessage(firstName string) string {
	if firstName == "" {
		firstName = "Дорогой друг"
	}
	return fmt.Sprintf("Привет, %s! 👋", firstName)
}

// withMainMenuHint appends the main menu reminder to a message.
func withMainMenuHint(text string) string {
	return text + "\n" + mainMenuHint
}
