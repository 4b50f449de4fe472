package models

// Creator is a member of the team shown on the "about" tab.
type Creator struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"desc"`
	Skills      string `json:"skills"`
	Avatar      string `json:"avatar"`
}

// DefaultCreators is the team listed on a fresh install.
func DefaultCreators() []Creator {
	return []Creator{
		{Name: "Олександр", Role: "Backend Lead", Description: "Архітектор серверної частини та безпеки даних.", Skills: "Python, Flask, JSON, SQL"},
		{Name: "Марія", Role: "UI/UX Designer", Description: "Дизайнер інтерфейсу. Створила стиль УКД.", Skills: "Tailwind, Figma, Adobe Suite"},
		{Name: "Дмитро", Role: "Frontend Dev", Description: "Майстер інтерактивності та таймерів.", Skills: "JS, Animations, React, CSS3"},
		{Name: "Олена", Role: "QA Engineer", Description: "Тестування системи на помилки та стабільність.", Skills: "Unit Testing, Debugging, QA Docs"},
		{Name: "Артем", Role: "Data Architect", Description: "Оптимізація збереження даних та безпека профілів.", Skills: "JSON, Security Protocols, Excel Sync", Avatar: "https://cdn-icons-png.flaticon.com/512/616/616438.png"},
	}
}
