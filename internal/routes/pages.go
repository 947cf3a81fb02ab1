package routes

// Page identifies a page component of the SPA.
type Page string

// Pages rendered by the route table.
const (
	PageHome               Page = "HomePage"
	PageComoFunciona       Page = "ComoFunciona"
	PageAbout              Page = "About"
	PageHistorial          Page = "Historial"
	PageRanking            Page = "Ranking"
	PageResultadosAlumno   Page = "ResultadosAlumno"
	PageSeleccionarMateria Page = "SeleccionarMateria"
	PageAlumnoDashboard    Page = "AlumnoDashboard"
	PageDocenteDashboard   Page = "DocenteDashboard"
	PageRestringido        Page = "Restringido"
	PageCreadorEnsayos     Page = "CreadordeEnsayos"
	PageEditorEnsayos      Page = "EditordeEnsayos"
	PageListaEnsayos       Page = "ListaEnsayos"
	PageRendirEnsayo       Page = "RendirEnsayo"
	PageListaEnsayosDoc    Page = "ListaEnsayosDocente"
	PageEnsayoResultados   Page = "EnsayoResultados"
)

// Route names used for named navigation.
const (
	NameListaEnsayos        = "lista-ensayos"
	NameRendirEnsayo        = "rendir-ensayo"
	NameListaEnsayosDocente = "lista-ensayos-docente"
	NameEnsayoResultados    = "ensayo-resultados"
)

// Default returns the application's route table in declaration order.
// The /ensayos/{materia} and /alumno/ensayo/{id} entries are declared twice;
// NewTable keeps the last declaration of each.
func Default() []Route {
	materia := Extract(Bind("materia", "materia"))
	return []Route{
		{Pattern: "/", Page: PageHome},
		{Pattern: "/como-funciona", Page: PageComoFunciona},
		{Pattern: "/about", Page: PageAbout},
		{Pattern: "/docente/historial", Page: PageHistorial},
		{Pattern: "/docente/ranking", Page: PageRanking},
		{Pattern: "/alumno/resultados", Page: PageResultadosAlumno},
		{Pattern: "/alumno/materias", Page: PageSeleccionarMateria},
		{Pattern: "/alumno", Page: PageAlumnoDashboard},
		{Pattern: "/docente", Page: PageDocenteDashboard},
		{Pattern: "/acceso-restringido", Page: PageRestringido},
		{Pattern: "/docente/creador-ensayos", Page: PageCreadorEnsayos},
		{Pattern: "/docente/editor-ensayos", Page: PageEditorEnsayos},
		{Pattern: "/docente/editor-ensayos/{id}", Page: PageEditorEnsayos, Props: PassThrough},
		{Pattern: "/ensayos/{materia}", Name: NameListaEnsayos, Page: PageListaEnsayos, Props: materia},
		{Pattern: "/alumno/ensayo/{id}", Name: NameRendirEnsayo, Page: PageRendirEnsayo, Props: PassThrough},
		{Pattern: "/ensayos/{materia}", Name: NameListaEnsayos, Page: PageListaEnsayos, Props: materia},
		{Pattern: "/alumno/ensayo/{id}", Name: NameRendirEnsayo, Page: PageRendirEnsayo, Props: PassThrough},
		{Pattern: "/docente/ensayos", Name: NameListaEnsayosDocente, Page: PageListaEnsayosDoc},
		{Pattern: "/docente/ensayo/{id}/resultados", Name: NameEnsayoResultados, Page: PageEnsayoResultados, Props: PassThrough},
	}
}
