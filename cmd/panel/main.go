// Command panel is the interactive product admin console. It keeps a local
// product list in sync with the catalog API and renders it after every
// operation.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"ProductPanel/internal/panel"
	"ProductPanel/pkg/kit"
)

func main() {
	log := kit.NewLogger("panel")
	defer func() { _ = log.Sync() }()

	apiURL := getenv("API_URL", "http://localhost:8082")

	store := panel.NewStore(panel.NewClient(apiURL), log)
	ctx := context.Background()

	if store.Snapshot().Status == panel.StatusIdle {
		_ = store.FetchAll(ctx)
	}
	render(store.Snapshot())

	fmt.Println(`commands: list add edit <id> rm <id> help quit`)

	sc := bufio.NewScanner(os.Stdin)
	for prompt(); sc.Scan(); prompt() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd, args := fields[0], fields[1:]; cmd {
		case "list", "ls", "refresh":
			_ = store.FetchAll(ctx)
			render(store.Snapshot())

		case "add":
			runAdd(ctx, sc, store)
			render(store.Snapshot())

		case "edit":
			if len(args) != 1 {
				fmt.Println("usage: edit <id>")
				continue
			}
			runEdit(ctx, sc, store, args[0])
			render(store.Snapshot())

		case "rm":
			if len(args) != 1 {
				fmt.Println("usage: rm <id>")
				continue
			}
			runDelete(ctx, sc, store, args[0])
			render(store.Snapshot())

		case "help":
			fmt.Println(`list          refetch and show the product table
add           create a product (prompts for fields)
edit <id>     update a product (blank keeps the current value)
rm <id>       delete a product after confirmation
quit          exit`)

		case "quit", "exit", "q":
			return

		default:
			fmt.Printf("unknown command %q (try help)\n", cmd)
		}
	}
}

func runAdd(ctx context.Context, sc *bufio.Scanner, store *panel.Store) {
	draft, ok := promptDraft(sc, panel.Draft{})
	if !ok {
		return
	}

	if _, err := store.Create(ctx, draft); err != nil {
		fmt.Println("create failed:", err)
		return
	}
	// refetch after create so the table shows exactly what the server has
	_ = store.FetchAll(ctx)
}

func runEdit(ctx context.Context, sc *bufio.Scanner, store *panel.Store, id string) {
	var current *panel.Product
	for _, p := range store.Snapshot().Products {
		if p.ID == id {
			cp := p
			current = &cp
			break
		}
	}
	if current == nil {
		fmt.Printf("no product %q in the current list (try list first)\n", id)
		return
	}

	draft, ok := promptDraft(sc, panel.Draft{
		ProductName: current.ProductName,
		Category:    current.Category,
		Price:       current.Price,
		Discount:    current.Discount,
	})
	if !ok {
		return
	}

	if _, err := store.Update(ctx, id, draft); err != nil {
		fmt.Println("update failed:", err)
	}
}

func runDelete(ctx context.Context, sc *bufio.Scanner, store *panel.Store, id string) {
	fmt.Printf("delete %s? you won't be able to revert this [y/N]: ", id)
	if !sc.Scan() || strings.ToLower(strings.TrimSpace(sc.Text())) != "y" {
		fmt.Println("kept")
		return
	}

	if _, err := store.Delete(ctx, id); err != nil {
		fmt.Println("delete failed:", err)
		return
	}
	fmt.Println("deleted")
}

// promptDraft asks for each draft field; a blank answer keeps the default.
// Reports false when input ends or a number fails to parse.
func promptDraft(sc *bufio.Scanner, def panel.Draft) (panel.Draft, bool) {
	draft := def

	name, ok := promptField(sc, "product name", def.ProductName)
	if !ok {
		return panel.Draft{}, false
	}
	draft.ProductName = name

	category, ok := promptField(sc, "category", def.Category)
	if !ok {
		return panel.Draft{}, false
	}
	draft.Category = category

	priceDef := strconv.FormatFloat(def.Price, 'f', -1, 64)
	priceRaw, ok := promptField(sc, "price", priceDef)
	if !ok {
		return panel.Draft{}, false
	}
	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil {
		fmt.Printf("bad price %q\n", priceRaw)
		return panel.Draft{}, false
	}
	draft.Price = price

	discountDef := ""
	if def.Discount != nil {
		discountDef = strconv.FormatFloat(*def.Discount, 'f', -1, 64)
	}
	discountRaw, ok := promptField(sc, "discount (optional)", discountDef)
	if !ok {
		return panel.Draft{}, false
	}
	if discountRaw == "" {
		draft.Discount = nil
	} else {
		discount, err := strconv.ParseFloat(discountRaw, 64)
		if err != nil {
			fmt.Printf("bad discount %q\n", discountRaw)
			return panel.Draft{}, false
		}
		draft.Discount = &discount
	}

	return draft, true
}

func promptField(sc *bufio.Scanner, label, def string) (string, bool) {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	if !sc.Scan() {
		return "", false
	}
	v := strings.TrimSpace(sc.Text())
	if v == "" {
		return def, true
	}
	return v, true
}

func render(st panel.State) {
	switch st.Status {
	case panel.StatusLoading:
		fmt.Println("Loading...")
	case panel.StatusFailed:
		fmt.Println(st.Err)
	case panel.StatusSucceeded:
		if len(st.Products) == 0 {
			fmt.Println("No products available.")
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPRODUCT NAME\tCATEGORY\tPRICE\tDISCOUNT")
		for _, p := range st.Products {
			discount := ""
			if p.Discount != nil {
				discount = strconv.FormatFloat(*p.Discount, 'f', -1, 64)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				p.ID, p.ProductName, p.Category,
				strconv.FormatFloat(p.Price, 'f', -1, 64), discount)
		}
		_ = w.Flush()
	}
}

func prompt() {
	fmt.Print("> ")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
