package workflow

// Style tratamiento visual de un estado (solo presentación).
type Style struct {
	ColorClass string `json:"color_class"`
	Label      string `json:"label"`
}

// Clases de color canónicas.
const (
	ColorInfo       = "status-info"
	ColorSuccess    = "status-success"
	ColorWarning    = "status-warning"
	ColorSuccessAlt = "status-success-alt"
	ColorDanger     = "status-danger"
)

var styles = map[Status]Style{
	StatusNew:          {ColorClass: ColorInfo, Label: "جديد"},
	StatusApproved:     {ColorClass: ColorSuccess, Label: "معتمد"},
	StatusContracted:   {ColorClass: ColorWarning, Label: "تم التعاقد"},
	StatusOrdered:      {ColorClass: ColorWarning, Label: "تم الطلب"},
	StatusDelivered:    {ColorClass: ColorSuccessAlt, Label: "تم التوريد"},
	StatusRejected:     {ColorClass: ColorDanger, Label: "مرفوض"},
	StatusOpen:         {ColorClass: ColorWarning, Label: "مفتوح"},
	StatusClosed:       {ColorClass: ColorSuccess, Label: "مغلق"},
	StatusOutOfService: {ColorClass: ColorDanger, Label: "خارج الخدمة"},
}

// StatusStyle devuelve el estilo del estado; para valores desconocidos usa el tratamiento informativo.
func StatusStyle(s Status) Style {
	if st, ok := styles[s]; ok {
		return st
	}
	return Style{ColorClass: ColorInfo, Label: string(s)}
}
