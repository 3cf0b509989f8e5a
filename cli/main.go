package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

var orderStatuses = map[string]string{
	"1": "Pending",
	"2": "Confirmed",
	"3": "Completed",
	"4": "Cancelled",
}

// Model defines the application state
type Model struct {
	mainMenu    list.Model
	ledgerTable table.Model
	entries     []LedgerEntry
	selected    LedgerEntry
	payments    []Payment
	stats       *DashboardStats
	amountInput textinput.Model
	spinner     spinner.Model
	client      *ApiClient
	loading     bool
	currentView string
	message     string
	error       string
}

// item represents a list item
type item struct {
	title, desc string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

// Initialize the model
func initialModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "Dashboard", desc: "Events, guests, projected revenue and top cuisine"},
		item{title: "Payment Ledger", desc: "Settlement of every invoice"},
		item{title: "Exit", desc: "Exit the application"},
	}
	mainMenu := list.New(items, list.NewDefaultDelegate(), 60, 14)
	mainMenu.Title = "Caterer CLI"

	columns := []table.Column{
		{Title: "Invoice", Width: 8},
		{Title: "Client", Width: 20},
		{Title: "Event", Width: 14},
		{Title: "Total", Width: 12},
		{Title: "Balance", Width: 12},
		{Title: "Payment", Width: 9},
		{Title: "Order", Width: 10},
	}
	ledgerTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	ti := textinput.New()
	ti.Placeholder = "amount, e.g. 4000"
	ti.CharLimit = 20
	ti.Width = 20

	return Model{
		mainMenu:    mainMenu,
		ledgerTable: ledgerTable,
		amountInput: ti,
		spinner:     s,
		client:      NewApiClient(),
		currentView: "main",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == "add_payment" {
			return m.updatePaymentInput(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			switch m.currentView {
			case "main":
				if selected, ok := m.mainMenu.SelectedItem().(item); ok {
					switch selected.title {
					case "Exit":
						return m, tea.Quit
					case "Dashboard":
						m.currentView = "dashboard"
						m.loading = true
						return m, fetchDashboard(m.client)
					case "Payment Ledger":
						m.currentView = "ledger"
						m.loading = true
						return m, fetchLedger(m.client)
					}
				}
			case "ledger":
				if i := m.ledgerTable.Cursor(); i >= 0 && i < len(m.entries) {
					m.selected = m.entries[i]
					m.currentView = "invoice"
					return m, fetchPayments(m.client, m.selected.InvoiceID)
				}
			}
		case "esc":
			m.error, m.message = "", ""
			switch m.currentView {
			case "invoice":
				m.currentView = "ledger"
				return m, fetchLedger(m.client)
			default:
				m.currentView = "main"
			}
		case "r":
			switch m.currentView {
			case "dashboard":
				return m, fetchDashboard(m.client)
			case "ledger":
				return m, fetchLedger(m.client)
			}
		case "a":
			if m.currentView == "invoice" {
				m.currentView = "add_payment"
				m.amountInput.SetValue("")
				m.amountInput.Focus()
				return m, textinput.Blink
			}
		case "1", "2", "3", "4":
			if m.currentView == "invoice" {
				return m, setOrderStatus(m.client, m.selected.InvoiceID, orderStatuses[msg.String()])
			}
		}
	case dashboardMsg:
		m.loading = false
		m.stats = msg.stats
		return m, nil
	case ledgerMsg:
		m.loading = false
		m.entries = msg.entries
		m.ledgerTable.SetRows(ledgerRows(msg.entries))
		return m, nil
	case paymentsMsg:
		m.payments = msg.payments
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	case confirmMsg:
		m.error = ""
		m.message = msg.message
		m.currentView = "invoice"
		return m, tea.Batch(fetchPayments(m.client, m.selected.InvoiceID), refreshSelected(m.client, m.selected.InvoiceID))
	case selectedMsg:
		m.selected = msg.entry
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "main":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "ledger":
		m.ledgerTable, cmd = m.ledgerTable.Update(msg)
	}
	return m, cmd
}

func (m Model) updatePaymentInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.currentView = "invoice"
		m.amountInput.Blur()
		return m, nil
	case "enter":
		amount := strings.TrimSpace(m.amountInput.Value())
		if amount == "" {
			m.error = "Please enter an amount"
			return m, nil
		}
		m.amountInput.Blur()
		return m, addPayment(m.client, m.selected.InvoiceID, amount)
	}

	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	var view string
	switch m.currentView {
	case "main":
		view = m.mainMenu.View()
	case "dashboard":
		view = titleStyle.Render("Dashboard") + "\n\n" + dashboardView(m.stats, m.loading, m.spinner.View())
		view += "\nPress 'r' to refresh, 'esc' to go back\n"
	case "ledger":
		view = titleStyle.Render("Payment Ledger") + "\n\n"
		if m.loading {
			view += m.spinner.View() + " Loading...\n"
		} else {
			view += m.ledgerTable.View() + "\n"
		}
		view += "\nPress 'enter' for details, 'r' to refresh, 'esc' to go back\n"
	case "invoice":
		view = invoiceView(m.selected, m.payments)
		view += "\nPress 'a' to add a payment, 1-4 to set order status (Pending, Confirmed, Completed, Cancelled), 'esc' to go back\n"
	case "add_payment":
		view = titleStyle.Render(fmt.Sprintf("Add Payment to Invoice #%d", m.selected.InvoiceID)) + "\n\n"
		view += fmt.Sprintf("Outstanding balance: ₹%s\n\n", m.selected.Balance)
		view += m.amountInput.View() + "\n\nPress 'enter' to record, 'esc' to cancel\n"
	default:
		view = "Loading..."
	}

	if m.message != "" {
		view += "\n" + successStyle.Render(m.message) + "\n"
	}
	if m.error != "" {
		view += "\n" + errorStyle.Render(m.error) + "\n"
	}
	return docStyle.Render(view)
}

// Custom message types for the tea.Model
type dashboardMsg struct {
	stats *DashboardStats
}

type ledgerMsg struct {
	entries []LedgerEntry
}

type paymentsMsg struct {
	payments []Payment
}

type selectedMsg struct {
	entry LedgerEntry
}

type errorMsg struct {
	err string
}

type confirmMsg struct {
	message string
}

func fetchDashboard(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		stats, err := client.GetDashboard()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching dashboard: %v", err)}
		}
		return dashboardMsg{stats: stats}
	}
}

func fetchLedger(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		entries, err := client.GetLedger()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching ledger: %v", err)}
		}
		return ledgerMsg{entries: entries}
	}
}

func fetchPayments(client *ApiClient, invoiceID uint) tea.Cmd {
	return func() tea.Msg {
		payments, err := client.GetPayments(invoiceID)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching payments: %v", err)}
		}
		return paymentsMsg{payments: payments}
	}
}

// refreshSelected reloads the ledger row of one invoice after a change
func refreshSelected(client *ApiClient, invoiceID uint) tea.Cmd {
	return func() tea.Msg {
		entries, err := client.GetLedger()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error refreshing invoice: %v", err)}
		}
		for _, e := range entries {
			if e.InvoiceID == invoiceID {
				return selectedMsg{entry: e}
			}
		}
		return errorMsg{err: fmt.Sprintf("Invoice %d no longer listed", invoiceID)}
	}
}

func addPayment(client *ApiClient, invoiceID uint, amount string) tea.Cmd {
	return func() tea.Msg {
		res, err := client.AddPayment(invoiceID, amount, "Cash")
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error recording payment: %v", err)}
		}
		return confirmMsg{message: fmt.Sprintf("Payment recorded: %s, balance ₹%s", res.PaymentStatus, res.Balance)}
	}
}

func setOrderStatus(client *ApiClient, invoiceID uint, status string) tea.Cmd {
	return func() tea.Msg {
		if err := client.UpdateOrderStatus(invoiceID, status); err != nil {
			return errorMsg{err: fmt.Sprintf("Error updating order status: %v", err)}
		}
		return confirmMsg{message: "Order status set to " + status}
	}
}

func ledgerRows(entries []LedgerEntry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		event := e.EventType
		if e.MenuMissing {
			event = "(menu deleted)"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", e.InvoiceID),
			e.ClientName,
			event,
			"₹" + e.Total,
			"₹" + e.Balance,
			e.Status,
			e.OrderStatus,
		}
	}
	return rows
}

func dashboardView(stats *DashboardStats, loading bool, spin string) string {
	if loading || stats == nil {
		return spin + " Loading...\n"
	}
	view := infoStyle.Render("Overview") + "\n\n"
	view += fmt.Sprintf("Total events:      %d\n", stats.TotalEvents)
	view += fmt.Sprintf("Total guests:      %d\n", stats.TotalGuests)
	view += fmt.Sprintf("Projected revenue: %s\n", stats.ProjectedRevenue)
	view += fmt.Sprintf("Top cuisine:       %s\n", stats.TopCuisine)
	return view
}

func invoiceView(e LedgerEntry, payments []Payment) string {
	view := titleStyle.Render(fmt.Sprintf("Invoice #%d", e.InvoiceID)) + "\n\n"
	view += fmt.Sprintf("Client: %s\n", e.ClientName)
	if e.MenuMissing {
		view += fmt.Sprintf("Menu: #%d (deleted)\n", e.MenuID)
	} else {
		view += fmt.Sprintf("Menu: #%d %s\n", e.MenuID, e.EventType)
	}
	view += fmt.Sprintf("Event date: %s\n", e.EventDate)
	view += fmt.Sprintf("Order status: %s\n\n", e.OrderStatus)
	view += fmt.Sprintf("Total: ₹%s   Paid: ₹%s   Balance: ₹%s   %s\n", e.Total, e.Paid, e.Balance, e.Status)

	view += "\nPayments:\n"
	if len(payments) == 0 {
		view += "No payments recorded yet\n"
	}
	for i, p := range payments {
		view += fmt.Sprintf("%d. ₹%s on %s via %s\n", i+1, p.Amount, p.PaymentDate, p.PaymentMode)
	}
	return view
}

func main() {
	client := NewApiClient()
	if ok, err := client.CheckHealth(); !ok {
		fmt.Printf("Warning: API server at %s is not available: %v\n", client.BaseURL, err)
	}

	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
