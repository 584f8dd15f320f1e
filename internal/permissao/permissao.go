// Package permissao define o conjunto fechado de códigos de permissão do
// sistema. Os guardas de rota usam estas constantes em vez de strings livres,
// para que um código digitado errado falhe em compilação e não em produção.
package permissao

// Codigo identifica uma capacidade atômica vinculada a um módulo.
type Codigo string

// Códigos por módulo.
const (
	LocaisListar     Codigo = "LOCAIS_LISTAR"
	LocaisVisualizar Codigo = "LOCAIS_VISUALIZAR"
	LocaisCriar      Codigo = "LOCAIS_CRIAR"
	LocaisEditar     Codigo = "LOCAIS_EDITAR"
	LocaisExcluir    Codigo = "LOCAIS_EXCLUIR"

	EventosListar     Codigo = "EVENTOS_LISTAR"
	EventosVisualizar Codigo = "EVENTOS_VISUALIZAR"
	EventosCriar      Codigo = "EVENTOS_CRIAR"
	EventosEditar     Codigo = "EVENTOS_EDITAR"
	EventosExcluir    Codigo = "EVENTOS_EXCLUIR"

	CursosListar     Codigo = "CURSOS_LISTAR"
	CursosVisualizar Codigo = "CURSOS_VISUALIZAR"
	CursosCriar      Codigo = "CURSOS_CRIAR"
	CursosEditar     Codigo = "CURSOS_EDITAR"
	CursosExcluir    Codigo = "CURSOS_EXCLUIR"

	UsuariosListar     Codigo = "USUARIOS_LISTAR"
	UsuariosVisualizar Codigo = "USUARIOS_VISUALIZAR"
	UsuariosCriar      Codigo = "USUARIOS_CRIAR"
	UsuariosEditar     Codigo = "USUARIOS_EDITAR"
	UsuariosExcluir    Codigo = "USUARIOS_EXCLUIR"

	PermissoesListar     Codigo = "PERMISSOES_LISTAR"
	PermissoesVisualizar Codigo = "PERMISSOES_VISUALIZAR"
	PermissoesCriar      Codigo = "PERMISSOES_CRIAR"
	PermissoesEditar     Codigo = "PERMISSOES_EDITAR"
	PermissoesExcluir    Codigo = "PERMISSOES_EXCLUIR"

	PerfisListar     Codigo = "PERFIS_LISTAR"
	PerfisVisualizar Codigo = "PERFIS_VISUALIZAR"
	PerfisCriar      Codigo = "PERFIS_CRIAR"
	PerfisEditar     Codigo = "PERFIS_EDITAR"
	PerfisExcluir    Codigo = "PERFIS_EXCLUIR"

	RelatoriosVisualizar Codigo = "RELATORIOS_VISUALIZAR"
	RelatoriosGerar      Codigo = "RELATORIOS_GERAR"
)

// AdminTotal concede acesso irrestrito, inclusive a operações destrutivas.
const AdminTotal Codigo = "ADMIN_TOTAL"

// PerfilAdministrador é o nome distinto do perfil com acesso total.
const PerfilAdministrador = "Administrador"

// Modulos enumera os módulos aceitos pelo cadastro de permissões.
func Modulos() []string {
	return []string{"locais", "eventos", "cursos", "usuarios", "permissoes", "relatorios"}
}

// ModuloValido informa se o módulo pertence à enumeração fixa.
func ModuloValido(modulo string) bool {
	for _, m := range Modulos() {
		if m == modulo {
			return true
		}
	}
	return false
}

// Definicao descreve uma permissão padrão criada no bootstrap.
type Definicao struct {
	Nome      string
	Codigo    Codigo
	Modulo    string
	Descricao string
}

// Padrao devolve o catálogo de permissões criadas pelo seed.
func Padrao() []Definicao {
	return []Definicao{
		{"Listar Locais", LocaisListar, "locais", "Permite visualizar a lista de locais"},
		{"Visualizar Local", LocaisVisualizar, "locais", "Permite ver detalhes de um local específico"},
		{"Criar Local", LocaisCriar, "locais", "Permite criar novos locais"},
		{"Editar Local", LocaisEditar, "locais", "Permite editar locais existentes"},
		{"Excluir Local", LocaisExcluir, "locais", "Permite excluir locais"},

		{"Listar Eventos", EventosListar, "eventos", "Permite visualizar a lista de eventos"},
		{"Visualizar Evento", EventosVisualizar, "eventos", "Permite ver detalhes de um evento específico"},
		{"Criar Evento", EventosCriar, "eventos", "Permite criar novos eventos"},
		{"Editar Evento", EventosEditar, "eventos", "Permite editar eventos existentes"},
		{"Excluir Evento", EventosExcluir, "eventos", "Permite excluir eventos"},

		{"Listar Cursos", CursosListar, "cursos", "Permite visualizar a lista de cursos"},
		{"Visualizar Curso", CursosVisualizar, "cursos", "Permite ver detalhes de um curso específico"},
		{"Criar Curso", CursosCriar, "cursos", "Permite criar novos cursos"},
		{"Editar Curso", CursosEditar, "cursos", "Permite editar cursos existentes"},
		{"Excluir Curso", CursosExcluir, "cursos", "Permite excluir cursos"},

		{"Listar Usuários", UsuariosListar, "usuarios", "Permite visualizar a lista de usuários"},
		{"Visualizar Usuário", UsuariosVisualizar, "usuarios", "Permite ver detalhes de um usuário específico"},
		{"Criar Usuário", UsuariosCriar, "usuarios", "Permite criar novos usuários"},
		{"Editar Usuário", UsuariosEditar, "usuarios", "Permite editar usuários existentes"},
		{"Excluir Usuário", UsuariosExcluir, "usuarios", "Permite excluir usuários"},

		{"Listar Permissões", PermissoesListar, "permissoes", "Permite visualizar a lista de permissões"},
		{"Visualizar Permissão", PermissoesVisualizar, "permissoes", "Permite ver detalhes de uma permissão específica"},
		{"Criar Permissão", PermissoesCriar, "permissoes", "Permite criar novas permissões"},
		{"Editar Permissão", PermissoesEditar, "permissoes", "Permite editar permissões existentes"},
		{"Excluir Permissão", PermissoesExcluir, "permissoes", "Permite excluir permissões"},

		{"Listar Perfis", PerfisListar, "permissoes", "Permite visualizar a lista de perfis"},
		{"Visualizar Perfil", PerfisVisualizar, "permissoes", "Permite ver detalhes de um perfil específico"},
		{"Criar Perfil", PerfisCriar, "permissoes", "Permite criar novos perfis"},
		{"Editar Perfil", PerfisEditar, "permissoes", "Permite editar perfis existentes"},
		{"Excluir Perfil", PerfisExcluir, "permissoes", "Permite excluir perfis"},

		{"Visualizar Relatórios", RelatoriosVisualizar, "relatorios", "Permite visualizar relatórios do sistema"},
		{"Gerar Relatórios", RelatoriosGerar, "relatorios", "Permite gerar relatórios personalizados"},
	}
}
