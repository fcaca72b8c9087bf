package service

import (
	"fmt"

	"katok/internal/models"
)

const mailSubject = "Ваши билеты на каток"

// ticketText строит текстовый блок для QR-кода. Порядок полей фиксированный:
// имя, день, время, тип билета, количество, цена.
func ticketText(req *models.TicketRequest) string {
	return fmt.Sprintf(
		"Имя: %s\nДень: %s\nВремя: %s\nТип билета: %s\nКоличество: %d\nЦена: %s руб.",
		req.FullName(),
		req.Day,
		req.Time,
		req.TypeLabel,
		req.Quantity,
		req.Amount.String(),
	)
}

// emailHTML строит тело письма. Детали покупки повторяют вывод резолвера
// поле в поле, значения подставляются дословно.
func emailHTML(req *models.TicketRequest, qrDataURI string) string {
	return fmt.Sprintf(`<h3>Спасибо за покупку билетов!</h3>
<p>Вот ваши билеты:</p>
<p><img src="%s" alt="QR Code" /></p>
<p>Детали покупки:</p>
<ul>
    <li>Имя: %s</li>
    <li>День: %s</li>
    <li>Время: %s</li>
    <li>Тип билета: %s</li>
    <li>Количество: %d</li>
    <li>Цена: %s руб.</li>
</ul>`,
		qrDataURI,
		req.FullName(),
		req.Day,
		req.Time,
		req.TypeLabel,
		req.Quantity,
		req.Amount.String(),
	)
}
